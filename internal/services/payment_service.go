package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roamly/experiences-backend/internal/database"
	"github.com/roamly/experiences-backend/internal/models"
	"github.com/roamly/experiences-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// PaymentService implements payment history reads and stored payment
// method management
type PaymentService struct {
	payments *database.PaymentRepository
	cards    *validator.CardValidator
	logger   *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments *database.PaymentRepository, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		cards:    validator.NewCardValidator(),
		logger:   logger,
	}
}

// ListPayments returns the caller's payment history
func (s *PaymentService) ListPayments(userID int64) ([]models.Payment, error) {
	return s.payments.ListPayments(userID)
}

// GetPayment returns one payment of the caller
func (s *PaymentService) GetPayment(userID, paymentID int64) (*models.Payment, error) {
	payment, err := s.payments.GetPayment(paymentID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrForbidden
	}
	return payment, nil
}

// ListMethods returns the caller's visible payment methods
func (s *PaymentService) ListMethods(userID int64) ([]models.PaymentMethod, error) {
	return s.payments.ListMethods(userID)
}

// GetMethod returns one of the caller's payment methods
func (s *PaymentService) GetMethod(userID, methodID int64) (*models.PaymentMethod, error) {
	method, err := s.payments.GetMethod(methodID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if method.UserID != userID {
		return nil, ErrForbidden
	}
	return method, nil
}

// CreateMethod validates and stores a payment method for the caller
func (s *PaymentService) CreateMethod(userID int64, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	if !req.HasAllFields() {
		return nil, NewValidationError("card_number, cvv, billing_zip, exp_month and exp_year are required")
	}

	number, err := s.cards.ValidateNumber(*req.CardNumber)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	if err := s.cards.ValidateExpiry(*req.ExpMonth, *req.ExpYear, time.Now().UTC()); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if err := s.cards.ValidateCVV(*req.CVV); err != nil {
		return nil, NewValidationError(err.Error())
	}

	method := &models.PaymentMethod{
		UserID:     userID,
		CardNumber: number,
		CVV:        *req.CVV,
		BillingZip: *req.BillingZip,
		ExpMonth:   *req.ExpMonth,
		ExpYear:    *req.ExpYear,
	}
	if err := s.payments.CreateMethod(method); err != nil {
		return nil, fmt.Errorf("failed to store payment method: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"method_id":   method.ID,
		"user_id":     userID,
		"card_number": s.cards.Mask(method.CardNumber),
	}).Info("payment method stored")

	return method, nil
}

// UpdateMethod applies a partial update to the caller's payment method
func (s *PaymentService) UpdateMethod(userID, methodID int64, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	if err := s.requireOwnedMethod(userID, methodID); err != nil {
		return nil, err
	}

	if req.CardNumber != nil {
		number, err := s.cards.ValidateNumber(*req.CardNumber)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		req.CardNumber = &number
	}
	if req.ExpMonth != nil || req.ExpYear != nil {
		current, err := s.payments.GetMethod(methodID)
		if err != nil {
			return nil, err
		}
		month, year := current.ExpMonth, current.ExpYear
		if req.ExpMonth != nil {
			month = *req.ExpMonth
		}
		if req.ExpYear != nil {
			year = *req.ExpYear
		}
		if err := s.cards.ValidateExpiry(month, year, time.Now().UTC()); err != nil {
			return nil, NewValidationError(err.Error())
		}
	}
	if req.CVV != nil {
		if err := s.cards.ValidateCVV(*req.CVV); err != nil {
			return nil, NewValidationError(err.Error())
		}
	}

	method, err := s.payments.UpdateMethod(methodID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	return method, nil
}

// DeleteMethod hides the caller's payment method from future listings
func (s *PaymentService) DeleteMethod(userID, methodID int64) error {
	if err := s.requireOwnedMethod(userID, methodID); err != nil {
		return err
	}
	return s.payments.HideMethod(methodID)
}

func (s *PaymentService) requireOwnedMethod(userID, methodID int64) error {
	method, err := s.payments.GetMethod(methodID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if method.UserID != userID {
		return ErrForbidden
	}
	return nil
}
