package handlers

import (
	"swagplan/internal/auth"

	"github.com/gin-gonic/gin"
)

// Register wires the API onto the router. requireSession guards member routes
// and triggerAccess guards the reminder trigger. Google sign-in routes are
// only mounted when authn is configured.
func (h *Handler) Register(router gin.IRouter, authn *auth.Authenticator, requireSession, triggerAccess gin.HandlerFunc) {
	router.GET("/health", HealthHandler)

	if authn != nil {
		router.GET("/auth/login", authn.LoginHandler)
		router.GET("/auth/google/callback", authn.CallbackHandler)
		router.POST("/auth/logout", requireSession, authn.LogoutHandler)
	}

	router.POST("/api/reminders/run", triggerAccess, h.RunReminders)

	protected := router.Group("")
	protected.Use(requireSession)
	{
		protected.GET("/auth/me", h.CurrentUser)

		protected.GET("/api/activities", h.ListActivities)
		protected.POST("/api/activities", h.CreateActivity)
		protected.POST("/api/activities/:id/signup", h.SignUp)
		protected.POST("/api/activities/:id/leave", h.Leave)
		protected.POST("/api/activities/:id/mark-held", h.MarkHeld)
		protected.POST("/api/activities/:id/mark-skipped", h.MarkSkipped)
		protected.DELETE("/api/activities/:id", h.DeleteActivity)

		protected.GET("/api/users", h.ListUsers)
		protected.PUT("/api/users/:id", h.UpdateUser)
	}
}
