package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/fitrank-backend/internal/http/response"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/services"
)

type RatingEventHandler struct {
	log    *logger.Logger
	events services.RatingEventService
}

func NewRatingEventHandler(log *logger.Logger, events services.RatingEventService) *RatingEventHandler {
	return &RatingEventHandler{
		log:    log.With("handler", "RatingEventHandler"),
		events: events,
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// GET /api/users/:id/rating-events
func (h *RatingEventHandler) ListUserEvents(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	events, err := h.events.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("ListUserEvents failed", "error", err, "user_id", userID)
		response.RespondError(c, http.StatusInternalServerError, "list_events_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"events": events, "count": len(events)})
}

// GET /api/categories/:id/rating-events
func (h *RatingEventHandler) ListCategoryEvents(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil || categoryID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
		return
	}
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	events, err := h.events.ListByCategory(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		h.log.Error("ListCategoryEvents failed", "error", err, "category_id", categoryID)
		response.RespondError(c, http.StatusInternalServerError, "list_events_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"events": events, "count": len(events)})
}

// GET /api/users/:id/rating-stats
func (h *RatingEventHandler) UserStats(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	days := queryInt(c, "days", 30)

	stats, err := h.events.UserStats(c.Request.Context(), userID, days)
	if err != nil {
		h.log.Error("UserStats failed", "error", err, "user_id", userID)
		response.RespondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats, "days": days})
}

// GET /api/rating-events/recent
func (h *RatingEventHandler) Recent(c *gin.Context) {
	eventType := c.Query("type")
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	events, err := h.events.ListRecent(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		h.log.Error("Recent failed", "error", err, "event_type", eventType)
		response.RespondError(c, http.StatusInternalServerError, "list_events_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"events": events, "count": len(events)})
}

// GET /api/rating-events/leaderboard
func (h *RatingEventHandler) Leaderboard(c *gin.Context) {
	days := queryInt(c, "days", 30)
	limit := queryInt(c, "limit", 0)

	rows, err := h.events.ChangeLeaderboard(c.Request.Context(), days, limit)
	if err != nil {
		h.log.Error("Leaderboard failed", "error", err, "days", days)
		response.RespondError(c, http.StatusInternalServerError, "leaderboard_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": rows, "days": days})
}

type cleanupRequest struct {
	OlderThanDays int `json:"older_than_days" binding:"required"`
}

// POST /api/rating-events/cleanup
func (h *RatingEventHandler) Cleanup(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	deleted, err := h.events.Cleanup(c.Request.Context(), req.OlderThanDays)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Cleanup failed", "error", err, "older_than_days", req.OlderThanDays)
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}
