package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"swagplan/internal/auth"
	"swagplan/internal/models"
	"swagplan/internal/store"

	"github.com/gin-gonic/gin"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ListUsers returns every registered member
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	err := h.store.View(c.Request.Context(), func(doc *models.Document) error {
		users = append([]models.User{}, doc.Users...)
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser sets or clears a member's reminder email
func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	email := ""
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if email != "" && !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
		return
	}

	var updated models.User
	err := h.store.Update(c.Request.Context(), func(doc *models.Document) error {
		user := doc.FindUser(c.Param("id"))
		if user == nil {
			return store.ErrUserNotFound
		}
		user.Email = email
		updated = *user
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CurrentUser returns the member behind the session
func (h *Handler) CurrentUser(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)

	var user models.User
	err := h.store.View(c.Request.Context(), func(doc *models.Document) error {
		found := doc.FindUser(userID)
		if found == nil {
			return store.ErrUserNotFound
		}
		user = *found
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
