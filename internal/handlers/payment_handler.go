package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/experiences-backend/internal/middleware"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// PaymentHandler handles payment history and stored payment method
// endpoints
type PaymentHandler struct {
	payments *services.PaymentService
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// ListPayments returns the caller's payment history
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	payments, err := h.payments.ListPayments(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Payment not found")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPayment returns one payment of the caller
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	payment, err := h.payments.GetPayment(userCtx.UserID, paymentID)
	if err != nil {
		respondError(c, h.logger, err, "Payment not found")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListMethods returns the caller's visible payment methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	methods, err := h.payments.ListMethods(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// GetMethod returns one of the caller's payment methods
func (h *PaymentHandler) GetMethod(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	methodID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}

	method, err := h.payments.GetMethod(userCtx.UserID, methodID)
	if err != nil {
		respondError(c, h.logger, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusOK, method)
}

// CreateMethod stores a payment method for the caller
func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	method, err := h.payments.CreateMethod(userCtx.UserID, req)
	if err != nil {
		respondError(c, h.logger, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusCreated, method)
}

// UpdateMethod applies a partial update to the caller's payment method
func (h *PaymentHandler) UpdateMethod(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	methodID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}

	var req models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	method, err := h.payments.UpdateMethod(userCtx.UserID, methodID, req)
	if err != nil {
		respondError(c, h.logger, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusOK, method)
}

// DeleteMethod hides the caller's payment method from future listings
func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	methodID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}

	if err := h.payments.DeleteMethod(userCtx.UserID, methodID); err != nil {
		respondError(c, h.logger, err, "Payment method not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method removed"})
}
