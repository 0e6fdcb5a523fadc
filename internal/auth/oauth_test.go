package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"

	"swagplan/internal/config"
	"swagplan/internal/models"
	"swagplan/internal/store"
)

func newTestAuthenticator(t *testing.T, tokenURL string) (*Authenticator, *store.Guarded, *SessionStore) {
	t.Helper()
	sessions, _, _ := newTestSessionStore(t)
	log := zaptest.NewLogger(t)
	guarded := store.NewGuarded(store.NewFileStore(filepath.Join(t.TempDir(), "data.json"), log))

	cfg := config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:8080/auth/google/callback",
	}
	a, err := NewAuthenticator(cfg, sessions, guarded, log)
	require.NoError(t, err)
	a.oauth.Endpoint = oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenURL}
	a.validate = func(_ context.Context, raw, audience string) (*idtoken.Payload, error) {
		if raw != "good-id-token" || audience != "client-id" {
			return nil, errors.New("bad token")
		}
		return &idtoken.Payload{
			Subject: "google-123",
			Claims:  map[string]interface{}{"email": "ada@x.com", "name": "Ada", "email_verified": true},
		}, nil
	}
	return a, guarded, sessions
}

func tokenServer(t *testing.T, idToken string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"` + idToken + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAuthenticatorRequiresCredentials(t *testing.T) {
	_, err := NewAuthenticator(config.Config{}, nil, nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestLoginHandlerRedirectsWithState(t *testing.T) {
	a, _, _ := newTestAuthenticator(t, "http://unused")
	r := gin.New()
	r.GET("/auth/login", a.LoginHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", loc.Host)
	state := loc.Query().Get("state")
	assert.Len(t, state, StateLength)
	assert.Contains(t, w.Header().Get("Set-Cookie"), StateCookieName+"="+state)
}

func callbackRequest(state, cookieState string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: StateCookieName, Value: cookieState})
	}
	return req
}

func TestCallbackHandlerCreatesUserAndSession(t *testing.T) {
	srv := tokenServer(t, "good-id-token")
	a, guarded, sessions := newTestAuthenticator(t, srv.URL)
	r := gin.New()
	r.GET("/auth/google/callback", a.CallbackHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, callbackRequest("st", "st"))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var sessionID string
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionID = c.Value
		}
	}
	require.NotEmpty(t, sessionID)

	session, err := sessions.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", session.Email)

	require.NoError(t, guarded.View(context.Background(), func(doc *models.Document) error {
		user := doc.FindUserByGoogleID("google-123")
		require.NotNil(t, user)
		assert.Equal(t, session.UserID, user.ID)
		assert.Equal(t, "Ada", user.Name)
		return nil
	}))

	// a second login reuses the same user
	w = httptest.NewRecorder()
	r.ServeHTTP(w, callbackRequest("st2", "st2"))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.NoError(t, guarded.View(context.Background(), func(doc *models.Document) error {
		assert.Len(t, doc.Users, 1)
		return nil
	}))
}

func TestCallbackHandlerRejects(t *testing.T) {
	t.Run("state mismatch", func(t *testing.T) {
		a, _, _ := newTestAuthenticator(t, tokenServer(t, "good-id-token").URL)
		r := gin.New()
		r.GET("/auth/google/callback", a.CallbackHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, callbackRequest("st", "other"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, callbackRequest("st", ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid id token", func(t *testing.T) {
		a, _, _ := newTestAuthenticator(t, tokenServer(t, "forged").URL)
		r := gin.New()
		r.GET("/auth/google/callback", a.CallbackHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, callbackRequest("st", "st"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpsertGoogleUser(t *testing.T) {
	doc := models.NewDocument()
	doc.Users = []models.User{{ID: "u1", Name: "Ada L", Email: "Ada@X.com"}}

	user := upsertGoogleUser(doc, &UserInfo{Sub: "g1", Email: "ada@x.com", Name: "Ada"})
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "g1", doc.Users[0].GoogleID)

	again := upsertGoogleUser(doc, &UserInfo{Sub: "g1", Email: "ada@x.com", Name: "Ada Lovelace"})
	assert.Equal(t, "u1", again.ID)
	assert.Equal(t, "Ada Lovelace", doc.Users[0].Name)

	fresh := upsertGoogleUser(doc, &UserInfo{Sub: "g2", Email: "bob@x.com", Name: "Bob"})
	assert.NotEqual(t, "u1", fresh.ID)
	assert.Len(t, doc.Users, 2)
	assert.Equal(t, "g2", doc.Users[1].GoogleID)
}

func TestLogoutHandler(t *testing.T) {
	a, _, sessions := newTestAuthenticator(t, "http://unused")
	session, err := sessions.Create(context.Background(), &models.User{ID: "u1"})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/logout", AuthMiddleware(sessions), a.LogoutHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, sessionRequest(http.MethodPost, "/auth/logout", session.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = sessions.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
