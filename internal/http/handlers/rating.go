package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/fitrank-backend/internal/http/response"
	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/services"
)

type RatingHandler struct {
	log    *logger.Logger
	rating services.RatingService
}

func NewRatingHandler(log *logger.Logger, rating services.RatingService) *RatingHandler {
	return &RatingHandler{
		log:    log.With("handler", "RatingHandler"),
		rating: rating,
	}
}

// statusFor maps the service error taxonomy onto HTTP. Anything
// outside the taxonomy is a server fault.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrIncompleteProfile):
		return http.StatusUnprocessableEntity, "incomplete_profile"
	case errors.Is(err, errs.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

type recomputeRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

// POST /api/ratings/recompute
func (h *RatingHandler) RecomputeUserCategory(c *gin.Context) {
	var req recomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.rating.RecomputeUserCategoryRating(c.Request.Context(), req.UserID, req.CategoryID)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("RecomputeUserCategory failed", "error", err, "user_id", req.UserID, "category_id", req.CategoryID)
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

// POST /api/categories/:id/recompute
func (h *RatingHandler) RecomputeCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil || categoryID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
		return
	}

	results, err := h.rating.RecomputeCategoryRatings(c.Request.Context(), categoryID)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("RecomputeCategory failed", "error", err, "category_id", categoryID)
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results, "count": len(results)})
}

// POST /api/users/:id/overall/recompute
func (h *RatingHandler) RecomputeOverall(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	result, err := h.rating.RecomputeOverallRating(c.Request.Context(), userID)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("RecomputeOverall failed", "error", err, "user_id", userID)
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

type batchRecomputeRequest struct {
	UserIDs    []uuid.UUID `json:"user_ids" binding:"required"`
	CategoryID *uuid.UUID  `json:"category_id"`
}

// POST /api/ratings/recompute/batch
func (h *RatingHandler) BatchRecompute(c *gin.Context) {
	var req batchRecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.UserIDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "empty_user_ids", nil)
		return
	}

	results, err := h.rating.BatchRecompute(c.Request.Context(), req.UserIDs, req.CategoryID)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("BatchRecompute failed", "error", err, "users", len(req.UserIDs))
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results, "count": len(results)})
}
