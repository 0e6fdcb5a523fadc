package handlers

import (
	"context"
	"errors"
	"net/http"

	"swagplan/internal/models"
	"swagplan/internal/reminders"
	"swagplan/internal/services"
	"swagplan/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sweeper runs a reminder sweep on demand
type Sweeper interface {
	RunOnce(ctx context.Context) (reminders.Summary, error)
}

// Handler serves the activity, user and reminder API
type Handler struct {
	store   *store.Guarded
	sweeper Sweeper
	log     *zap.Logger
}

func New(st *store.Guarded, sweeper Sweeper, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: st, sweeper: sweeper, log: log}
}

// badRequest marks an error whose message is safe to return to the client
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// handleError maps domain errors to status codes and logs the unexpected ones
func (h *Handler) handleError(c *gin.Context, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		c.JSON(http.StatusBadRequest, gin.H{"error": br.msg})
	case errors.Is(err, store.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
	case errors.Is(err, store.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Activity is already completed and cannot be changed back"})
	case errors.Is(err, services.ErrSweepInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
