package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roamly/experiences-backend/internal/middleware"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// BookingHandler handles booking and reservation endpoints
type BookingHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// ListBookings returns the caller's bookings split into past and current
// @Summary List my bookings
// @Tags Bookings
// @Produce json
// @Success 200 {object} models.BookingListResponse
// @Security BearerAuth
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	resp, err := h.bookings.ListForUser(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBooking returns one booking with its reservations
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Success 200 {object} models.Booking
// @Failure 403 {object} map[string]interface{} "Not the booking owner"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	booking, err := h.bookings.Get(userCtx.UserID, bookingID)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CreateBooking creates a booking with optional initial reservations
// @Summary Create a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Experience not found"
// @Security BearerAuth
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.Create(userCtx.UserID, req)
	if err != nil {
		respondError(c, h.logger, err, "Experience not found")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// UpdateBooking applies a partial update to a booking
// @Summary Update a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} models.Booking
// @Security BearerAuth
// @Router /bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.Update(userCtx.UserID, bookingID, req)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking and all of its reservations
// @Summary Delete a booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Router /bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if err := h.bookings.Delete(userCtx.UserID, bookingID); err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// ManageReservations appends to or replaces a booking's reservations and
// returns the newly created ones. With ?replace=true the posted set
// replaces all existing reservations.
// @Summary Add or replace reservations
// @Tags Bookings
// @Accept json
// @Produce json
// @Param replace query bool false "Replace the full reservation set"
// @Success 201 {object} map[string][]models.Reservation
// @Security BearerAuth
// @Router /bookings/{id}/reservations [post]
func (h *BookingHandler) ManageReservations(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	var inputs []models.ReservationInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an array of reservations"})
		return
	}

	replace := strings.EqualFold(c.Query("replace"), "true")

	created, err := h.bookings.ManageReservations(userCtx.UserID, bookingID, inputs, replace)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservations": created})
}

// DeleteReservations removes the listed reservations from a booking and
// reports how many were deleted. Ids belonging to other bookings are
// ignored.
// @Summary Delete reservations by id
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /bookings/{id}/reservations [delete]
func (h *BookingHandler) DeleteReservations(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an array of reservation ids"})
		return
	}

	count, err := h.bookings.DeleteReservations(userCtx.UserID, bookingID, ids)
	if err != nil {
		respondError(c, h.logger, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d reservations", count),
		"deleted_count": count,
	})
}
