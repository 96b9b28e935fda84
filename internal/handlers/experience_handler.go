package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ExperienceHandler handles the experience catalog and its admin-managed
// schedules and images
type ExperienceHandler struct {
	experiences *services.ExperienceService
	logger      *logrus.Logger
}

// NewExperienceHandler creates a new ExperienceHandler
func NewExperienceHandler(experiences *services.ExperienceService, logger *logrus.Logger) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences, logger: logger}
}

// ListExperiences returns all experiences with their images
func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	experiences, err := h.experiences.List()
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, experiences)
}

// GetExperience returns one experience with schedules and images
func (h *ExperienceHandler) GetExperience(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	experience, err := h.experiences.Get(id)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, experience)
}

// UpdateExperience applies a partial update to an experience (admin only)
func (h *ExperienceHandler) UpdateExperience(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var req models.UpdateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	experience, err := h.experiences.Update(id, req)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, experience)
}

// ListSchedules returns the schedules of an experience
func (h *ExperienceHandler) ListSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	schedules, err := h.experiences.ListSchedules(id)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// AddSchedules inserts schedules for an experience (admin only)
func (h *ExperienceHandler) AddSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var inputs []models.ScheduleInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an array of schedules"})
		return
	}

	schedules, err := h.experiences.AddSchedules(id, inputs)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusCreated, schedules)
}

// UpdateSchedules applies partial updates to schedules of an experience.
// Each entry must carry its schedule id (admin only).
func (h *ExperienceHandler) UpdateSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var inputs []models.ScheduleInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an array of schedules"})
		return
	}

	schedules, err := h.experiences.UpdateSchedules(id, inputs)
	if err != nil {
		respondError(c, h.logger, err, "Schedule not found")
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// DeleteSchedules removes the listed schedules of an experience and
// reports how many were deleted (admin only)
func (h *ExperienceHandler) DeleteSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an array of schedule ids"})
		return
	}

	count, err := h.experiences.DeleteSchedules(id, ids)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d schedules", count),
		"deleted_count": count,
	})
}

// ListImages returns the images of an experience
func (h *ExperienceHandler) ListImages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	images, err := h.experiences.ListImages(id)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, images)
}

// AddImages inserts image urls for an experience (admin only)
func (h *ExperienceHandler) AddImages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var req struct {
		ImageURLs []string `json:"image_urls"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_urls must be an array"})
		return
	}

	images, err := h.experiences.AddImages(id, req.ImageURLs)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusCreated, images)
}

// DeleteImages removes the listed images of an experience and reports how
// many were deleted (admin only)
func (h *ExperienceHandler) DeleteImages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		return
	}

	var req struct {
		ImageIDs []int64 `json:"image_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_ids must be an array"})
		return
	}
	if len(req.ImageIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image ID is required"})
		return
	}

	count, err := h.experiences.DeleteImages(id, req.ImageIDs)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching images found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d image(s)", count),
		"deleted_count": count,
	})
}

// ListTags returns all tags
func (h *ExperienceHandler) ListTags(c *gin.Context) {
	tags, err := h.experiences.ListTags()
	if err != nil {
		respondError(c, h.logger, err, "Tag not found")
		return
	}
	c.JSON(http.StatusOK, tags)
}
