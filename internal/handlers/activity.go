package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"swagplan/internal/auth"
	"swagplan/internal/models"
	"swagplan/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListActivities returns upcoming activities first (soonest first), then
// completed ones (most recent first)
func (h *Handler) ListActivities(c *gin.Context) {
	var activities []models.Activity
	err := h.store.View(c.Request.Context(), func(doc *models.Document) error {
		activities = append([]models.Activity{}, doc.Activities...)
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	sortActivities(activities)
	c.JSON(http.StatusOK, activities)
}

func sortActivities(activities []models.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		aPlanned, bPlanned := a.Status == models.StatusPlanned, b.Status == models.StatusPlanned
		if aPlanned != bPlanned {
			return aPlanned
		}
		// YYYY-MM-DD sorts lexically
		if aPlanned {
			return a.Date < b.Date
		}
		return a.Date > b.Date
	})
}

// CreateActivity adds a new planned activity
func (h *Handler) CreateActivity(c *gin.Context) {
	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and date are required"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and date are required"})
		return
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	activity := models.Activity{
		ID:           uuid.NewString(),
		Title:        title,
		Date:         req.Date,
		Status:       models.StatusPlanned,
		Notes:        req.Notes,
		Participants: []string{},
	}
	if req.Responsible != nil {
		activity.SetResponsible(strings.TrimSpace(*req.Responsible))
	}

	err := h.store.Update(c.Request.Context(), func(doc *models.Document) error {
		if id := activity.ResponsibleID(); id != "" && doc.FindUser(id) == nil {
			return store.ErrUserNotFound
		}
		doc.Activities = append(doc.Activities, activity)
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// SignUp adds a participant to an activity
func (h *Handler) SignUp(c *gin.Context) {
	h.membership(c, func(a *models.Activity, userID string) { a.SignUp(userID) })
}

// Leave removes a participant from an activity
func (h *Handler) Leave(c *gin.Context) {
	h.membership(c, func(a *models.Activity, userID string) { a.Leave(userID) })
}

func (h *Handler) membership(c *gin.Context, change func(a *models.Activity, userID string)) {
	var req models.MembershipRequest
	// the body is optional; an empty one means the session user
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	userID := req.UserID
	if userID == "" {
		userID = c.GetString(auth.ContextUserID)
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	var updated models.Activity
	err := h.store.Update(c.Request.Context(), func(doc *models.Document) error {
		activity := doc.FindActivity(c.Param("id"))
		if activity == nil {
			return store.ErrActivityNotFound
		}
		if doc.FindUser(userID) == nil {
			return store.ErrUserNotFound
		}
		change(activity, userID)
		updated = *activity
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MarkHeld records that a planned activity took place
func (h *Handler) MarkHeld(c *gin.Context) {
	h.complete(c, models.StatusHeld)
}

// MarkSkipped records that a planned activity did not take place
func (h *Handler) MarkSkipped(c *gin.Context) {
	h.complete(c, models.StatusSkipped)
}

func (h *Handler) complete(c *gin.Context, status models.ActivityStatus) {
	var updated models.Activity
	err := h.store.Update(c.Request.Context(), func(doc *models.Document) error {
		activity := doc.FindActivity(c.Param("id"))
		if activity == nil {
			return store.ErrActivityNotFound
		}
		if err := activity.Complete(status); err != nil {
			return err
		}
		updated = *activity
		return nil
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteActivity removes an activity
func (h *Handler) DeleteActivity(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Update(c.Request.Context(), func(doc *models.Document) error {
		for i := range doc.Activities {
			if doc.Activities[i].ID == id {
				doc.Activities = append(doc.Activities[:i], doc.Activities[i+1:]...)
				return nil
			}
		}
		return store.ErrActivityNotFound
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
