package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"swagplan/internal/config"
	"swagplan/internal/models"
	"swagplan/internal/store"
	"swagplan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// ErrOAuthNotConfigured is returned when Google credentials are missing
var ErrOAuthNotConfigured = errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REDIRECT_URL must be set")

type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// Authenticator runs the Google sign-in flow and issues sessions
type Authenticator struct {
	oauth    *oauth2.Config
	sessions *SessionStore
	store    *store.Guarded
	validate idTokenValidator
	log      *zap.Logger
}

func NewAuthenticator(cfg config.Config, sessions *SessionStore, st *store.Guarded, log *zap.Logger) (*Authenticator, error) {
	if !cfg.OAuthEnabled() {
		return nil, ErrOAuthNotConfigured
	}
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		sessions: sessions,
		store:    st,
		validate: idtoken.Validate,
		log:      log,
	}, nil
}

// LoginHandler redirects to the Google consent screen
func (a *Authenticator) LoginHandler(c *gin.Context) {
	state, err := SetOAuthState(c)
	if err != nil {
		a.log.Error("failed to generate oauth state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate login URL"})
		return
	}
	url := a.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// CallbackHandler processes the OAuth callback from Google
func (a *Authenticator) CallbackHandler(c *gin.Context) {
	log := a.log.With(zap.String("client_ip", utils.GetRealClientIP(c)))

	if !VerifyOAuthState(c, c.Query("state")) {
		log.Warn("oauth callback with invalid state")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	ctx := c.Request.Context()
	token, err := a.oauth.Exchange(ctx, c.Query("code"))
	if err != nil {
		log.Error("oauth code exchange failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code exchange failed"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		log.Error("token response has no id_token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get id_token"})
		return
	}

	payload, err := a.validate(ctx, rawIDToken, a.oauth.ClientID)
	if err != nil {
		log.Warn("id token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to verify id_token"})
		return
	}
	info, err := userInfoFromPayload(payload)
	if err != nil {
		log.Warn("id token missing identity", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to verify id_token"})
		return
	}

	var user models.User
	err = a.store.Update(ctx, func(doc *models.Document) error {
		user = *upsertGoogleUser(doc, info)
		return nil
	})
	if err != nil {
		log.Error("failed to record user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record user"})
		return
	}

	session, err := a.sessions.Create(ctx, &user)
	if err != nil {
		log.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	SetSessionCookie(c, session, a.sessions.TTL())

	log.Info("user signed in", zap.String("user_id", user.ID))
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// LogoutHandler deletes the session and clears the cookie
func (a *Authenticator) LogoutHandler(c *gin.Context) {
	if id := c.GetString(ContextSessionID); id != "" {
		if err := a.sessions.Delete(c.Request.Context(), id); err != nil {
			a.log.Warn("failed to delete session", zap.Error(err))
		}
	}
	ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// upsertGoogleUser finds the user for a Google identity, linking a pre-existing
// user with the same email, or creates one
func upsertGoogleUser(doc *models.Document, info *UserInfo) *models.User {
	if user := doc.FindUserByGoogleID(info.Sub); user != nil {
		if info.Name != "" {
			user.Name = info.Name
		}
		if user.Email == "" {
			user.Email = info.Email
		}
		return user
	}

	if info.Email != "" {
		for i := range doc.Users {
			user := &doc.Users[i]
			if user.GoogleID == "" && strings.EqualFold(user.Email, info.Email) {
				user.GoogleID = info.Sub
				return user
			}
		}
	}

	doc.Users = append(doc.Users, models.User{
		ID:       uuid.NewString(),
		Name:     info.Name,
		Email:    info.Email,
		GoogleID: info.Sub,
	})
	return &doc.Users[len(doc.Users)-1]
}
