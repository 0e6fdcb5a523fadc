package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"swagplan/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionCookieName is the name of the cookie that stores the session ID
	SessionCookieName = "swagplan_session"
	// StateCookieName is the name of the cookie that temporarily stores the OAuth state
	StateCookieName = "swagplan_oauth_state"
	// StateLength is the length of the random state string in bytes
	StateLength = 32

	sessionKeyPrefix = "swagplan:session:"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// GenerateRandomString creates a cryptographically secure random string
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// SessionStore keeps sessions in redis. Every session has a sliding expiry:
// reads past the half-way mark push ExpiresAt out by another ttl.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = models.SessionDuration
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

// TTL is the idle lifetime of a session
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create starts a session for the user
func (s *SessionStore) Create(ctx context.Context, user *models.User) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns a live session and extends it when it is past half its lifetime
func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	session.ID = id

	now := s.now()
	if session.IsExpired(now) {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionExpired
	}
	if session.NeedsExtension(now, s.ttl) {
		session.ExpiresAt = now.Add(s.ttl)
		if err := s.put(ctx, &session); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

// Delete removes a session; deleting an unknown session is not an error
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) put(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// SetSessionCookie writes the session cookie
func SetSessionCookie(c *gin.Context, session *models.Session, ttl time.Duration) {
	secure := gin.Mode() != gin.DebugMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		session.ID,
		int(ttl.Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie expires the session cookie in the browser
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// SetOAuthState generates and stores a random state for CSRF protection
func SetOAuthState(c *gin.Context) (string, error) {
	state, err := GenerateRandomString(StateLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	// only used during the OAuth round trip
	secure := gin.Mode() != gin.DebugMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		StateCookieName,
		state,
		int(10*time.Minute.Seconds()),
		"/",
		"",
		secure,
		true,
	)

	return state, nil
}

// VerifyOAuthState verifies the state parameter from the OAuth callback
func VerifyOAuthState(c *gin.Context, receivedState string) bool {
	savedState, err := c.Cookie(StateCookieName)
	if err != nil {
		return false
	}

	// Clear the state cookie regardless of outcome
	c.SetCookie(StateCookieName, "", -1, "/", "", false, true)

	return savedState != "" && savedState == receivedState
}
