package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format activities are stored with
const DateLayout = "2006-01-02"

// ActivityStatus represents where an activity is in its lifecycle
type ActivityStatus string

const (
	StatusPlanned ActivityStatus = "planned"
	StatusHeld    ActivityStatus = "held"
	StatusSkipped ActivityStatus = "skipped"
)

// Activity represents a scheduled group activity
type Activity struct {
	ID            string                              `json:"id"`
	Title         string                              `json:"title"`
	Date          string                              `json:"date"`
	Status        ActivityStatus                      `json:"status"`
	Responsible   *string                             `json:"responsible"`
	Participants  []string                            `json:"participants"`
	Notes         string                              `json:"notes"`
	Notifications map[LeadTimeKey]*NotificationRecord `json:"notifications,omitempty"`
}

// HasResponsible reports whether someone owns the activity
func (a *Activity) HasResponsible() bool {
	return a.Responsible != nil && strings.TrimSpace(*a.Responsible) != ""
}

// ResponsibleID returns the owner's user ID, or "" when unassigned
func (a *Activity) ResponsibleID() string {
	if !a.HasResponsible() {
		return ""
	}
	return *a.Responsible
}

// SetResponsible assigns the owner; an empty ID clears it
func (a *Activity) SetResponsible(userID string) {
	if userID == "" {
		a.Responsible = nil
		return
	}
	a.Responsible = &userID
}

// IsParticipant reports whether the user has signed up
func (a *Activity) IsParticipant(userID string) bool {
	for _, p := range a.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Day parses the activity date as midnight UTC.
// Full RFC 3339 timestamps are accepted too and truncated to their UTC day.
func (a *Activity) Day() (time.Time, error) {
	return ParseDate(a.Date)
}

// ParseDate parses a date-only value (or an RFC 3339 timestamp) as midnight UTC
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := ts.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid activity date %q", value)
}

// CreateActivityRequest represents the data needed to create a new activity
type CreateActivityRequest struct {
	Title       string  `json:"title" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Responsible *string `json:"responsible"`
	Notes       string  `json:"notes"`
}

// MembershipRequest names the user joining or leaving an activity.
// UserID defaults to the authenticated user when empty.
type MembershipRequest struct {
	UserID string `json:"userId"`
}

// ErrInvalidTransition is returned when a completed activity is changed again
var ErrInvalidTransition = errors.New("activity is already completed and cannot be changed back")

// Complete moves a planned activity to held or skipped
func (a *Activity) Complete(status ActivityStatus) error {
	if status != StatusHeld && status != StatusSkipped {
		return fmt.Errorf("unsupported status %q", status)
	}
	if a.Status != StatusPlanned {
		return ErrInvalidTransition
	}
	a.Status = status
	return nil
}

// SignUp adds a participant; the first one to sign up becomes responsible
func (a *Activity) SignUp(userID string) {
	if !a.IsParticipant(userID) {
		a.Participants = append(a.Participants, userID)
	}
	if !a.HasResponsible() {
		a.SetResponsible(userID)
	}
}

// Leave removes a participant and hands responsibility to the next one in line
func (a *Activity) Leave(userID string) {
	remaining := make([]string, 0, len(a.Participants))
	for _, p := range a.Participants {
		if p != userID {
			remaining = append(remaining, p)
		}
	}
	a.Participants = remaining

	if a.ResponsibleID() == userID {
		if len(remaining) > 0 {
			a.SetResponsible(remaining[0])
		} else {
			a.SetResponsible("")
		}
	}
}
