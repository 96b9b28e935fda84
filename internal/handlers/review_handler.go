package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/experiences-backend/internal/middleware"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviews *services.ReviewService
	logger  *logrus.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews *services.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// ListReviews returns all reviews. Works without a token; with one, the
// caller's own reviews are flagged.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var viewerID int64
	if userCtx, exists := middleware.GetUserContext(c); exists {
		viewerID = userCtx.UserID
	}

	reviews, err := h.reviews.List(viewerID)
	if err != nil {
		respondError(c, h.logger, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReview returns one review
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var viewerID int64
	if userCtx, exists := middleware.GetUserContext(c); exists {
		viewerID = userCtx.UserID
	}

	review, err := h.reviews.Get(reviewID, viewerID)
	if err != nil {
		respondError(c, h.logger, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, review)
}

// ListForExperience returns the reviews of an experience. Works without a
// token; with one, the caller's own reviews are flagged.
func (h *ReviewHandler) ListForExperience(c *gin.Context) {
	experienceID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var viewerID int64
	if userCtx, exists := middleware.GetUserContext(c); exists {
		viewerID = userCtx.UserID
	}

	reviews, err := h.reviews.ListForExperience(experienceID, viewerID)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReview stores a review by the caller
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.reviews.Create(userCtx.UserID, req)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// UpdateReview applies a partial update to the caller's review
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.reviews.Update(userCtx.UserID, reviewID, req)
	if err != nil {
		respondError(c, h.logger, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview removes the caller's review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if err := h.reviews.Delete(userCtx.UserID, reviewID); err != nil {
		respondError(c, h.logger, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
