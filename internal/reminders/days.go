package reminders

import (
	"math"
	"time"
)

// DaysUntil returns the whole number of days from now until day, floored:
// 14.9 days yields 14, and a date in the past is negative.
func DaysUntil(day, now time.Time) int {
	return int(math.Floor(day.Sub(now).Hours() / 24))
}
