package models

// User represents a registered member
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	GoogleID string `json:"googleId,omitempty"`
}

// UpdateUserRequest carries a new email; null or "" clears it
type UpdateUserRequest struct {
	Email *string `json:"email"`
}
