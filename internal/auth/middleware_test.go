package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swagplan/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(sessions *SessionStore) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(ContextUserID), "email": c.GetString(ContextEmail)})
	})
	isAdmin := func(email string) bool { return email == "ops@x.com" }
	r.POST("/run", TriggerAccess("s3cret", sessions, isAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func sessionRequest(method, path, sessionID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	sessions, _, _ := newTestSessionStore(t)
	r := newProtectedRouter(sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, sessionRequest(http.MethodGet, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, sessionRequest(http.MethodGet, "/me", "unknown"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session, err := sessions.Create(context.Background(), &models.User{ID: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, sessionRequest(http.MethodGet, "/me", session.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u1","email":"a@x.com"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookieName+"="+session.ID)
}

func TestTriggerAccess(t *testing.T) {
	sessions, _, _ := newTestSessionStore(t)
	r := newProtectedRouter(sessions)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		session func() string
		want    int
	}{
		{name: "valid token", token: "s3cret", want: http.StatusNoContent},
		{name: "wrong token", token: "guess", want: http.StatusUnauthorized},
		{name: "no credentials", want: http.StatusUnauthorized},
		{
			name: "admin session",
			session: func() string {
				s, err := sessions.Create(ctx, &models.User{ID: "u9", Email: "ops@x.com"})
				require.NoError(t, err)
				return s.ID
			},
			want: http.StatusNoContent,
		},
		{
			name: "member session",
			session: func() string {
				s, err := sessions.Create(ctx, &models.User{ID: "u1", Email: "a@x.com"})
				require.NoError(t, err)
				return s.ID
			},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionID := ""
			if tt.session != nil {
				sessionID = tt.session()
			}
			req := sessionRequest(http.MethodPost, "/run", sessionID)
			if tt.token != "" {
				req.Header.Set(TriggerTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
