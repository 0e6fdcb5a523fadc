package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextSessionID = "sessionID"
	ContextUserID    = "userID"
	ContextEmail     = "email"
	ContextName      = "name"
)

// TriggerTokenHeader carries the shared secret for the reminder trigger endpoint
const TriggerTokenHeader = "X-Reminder-Token"

// AuthMiddleware validates the session cookie and refreshes its expiry
func AuthMiddleware(sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, sessions) {
			return
		}
		c.Next()
	}
}

// authenticate loads the session into the context, aborting the request when
// there is none
func authenticate(c *gin.Context, sessions *SessionStore) bool {
	id, err := c.Cookie(SessionCookieName)
	if err != nil || id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return false
	}

	session, err := sessions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			return false
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return false
	}

	// sliding expiry: keep the browser cookie in step with redis
	SetSessionCookie(c, session, sessions.TTL())

	c.Set(ContextSessionID, session.ID)
	c.Set(ContextUserID, session.UserID)
	c.Set(ContextEmail, session.Email)
	c.Set(ContextName, session.Name)
	return true
}

// TriggerAccess admits a request that carries the trigger token or comes from
// an authenticated admin session. Token requests skip the session lookup.
func TriggerAccess(token string, sessions *SessionStore, isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provided := c.GetHeader(TriggerTokenHeader); provided != "" {
			if token != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1 {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid trigger token"})
			return
		}

		if !authenticate(c, sessions) {
			return
		}
		if !isAdmin(c.GetString(ContextEmail)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
