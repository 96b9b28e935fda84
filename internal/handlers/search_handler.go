package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// SearchHandler handles experience search
type SearchHandler struct {
	search *services.SearchService
	logger *logrus.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(search *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// Search matches the q query parameter against experience titles
func (h *SearchHandler) Search(c *gin.Context) {
	resp, err := h.search.Search(c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}
