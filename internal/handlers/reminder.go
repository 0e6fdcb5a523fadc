package handlers

import (
	"net/http"

	"swagplan/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunReminders triggers a reminder sweep and reports its summary
func (h *Handler) RunReminders(c *gin.Context) {
	h.log.Info("reminder sweep requested", zap.String("client_ip", utils.GetRealClientIP(c)))

	summary, err := h.sweeper.RunOnce(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
