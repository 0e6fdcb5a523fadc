package models

import "time"

// TimestampLayout matches the millisecond ISO-8601 form stored in sentAt
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// LeadTimeKey identifies a reminder slot before an activity
type LeadTimeKey string

const (
	TwoMonths LeadTimeKey = "twoMonths"
	OneMonth  LeadTimeKey = "oneMonth"
	TwoWeeks  LeadTimeKey = "twoWeeks"
)

// LeadTime is a fixed number of days before an activity at which a reminder is due
type LeadTime struct {
	Key    LeadTimeKey
	Days   int
	Label  string // "2 months"
	Period string // "two months"
}

// LeadTimes is evaluated in this order on every sweep
var LeadTimes = []LeadTime{
	{Key: TwoMonths, Days: 60, Label: "2 months", Period: "two months"},
	{Key: OneMonth, Days: 30, Label: "1 month", Period: "one month"},
	{Key: TwoWeeks, Days: 14, Label: "2 weeks", Period: "two weeks"},
}

// LookupLeadTime returns the lead time for a key
func LookupLeadTime(key LeadTimeKey) (LeadTime, bool) {
	for _, lt := range LeadTimes {
		if lt.Key == key {
			return lt, true
		}
	}
	return LeadTime{}, false
}

// NotificationRecord tracks delivery of one lead-time reminder
type NotificationRecord struct {
	Sent       bool     `json:"sent"`
	SentAt     string   `json:"sentAt"`
	Recipients []string `json:"recipients"`
}

// NewSentRecord builds the record written after a successful delivery
func NewSentRecord(at time.Time, recipients []string) *NotificationRecord {
	return &NotificationRecord{
		Sent:       true,
		SentAt:     at.UTC().Format(TimestampLayout),
		Recipients: append([]string(nil), recipients...),
	}
}
