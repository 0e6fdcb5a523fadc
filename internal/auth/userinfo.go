package auth

import (
	"errors"

	"google.golang.org/api/idtoken"
)

// UserInfo is the identity carried by a verified Google ID token
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// userInfoFromPayload extracts user info from the verified token payload
func userInfoFromPayload(payload *idtoken.Payload) (*UserInfo, error) {
	if payload.Subject == "" {
		return nil, errors.New("id token has no subject")
	}
	info := &UserInfo{Sub: payload.Subject}

	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		info.EmailVerified = verified
	}
	if info.Name == "" {
		info.Name = info.Email
	}
	return info, nil
}
