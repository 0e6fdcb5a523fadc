package models

import "time"

// SessionDuration is how long a session stays valid without activity
const SessionDuration = 30 * time.Minute

// Session represents a logged-in browser session
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// NeedsExtension reports whether more than half the session lifetime has elapsed
func (s *Session) NeedsExtension(now time.Time, ttl time.Duration) bool {
	return now.After(s.ExpiresAt.Add(-ttl / 2))
}
