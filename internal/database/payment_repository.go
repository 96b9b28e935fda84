package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/roamly/experiences-backend/internal/models"
)

// PaymentRepository handles payments and stored payment methods
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, booking_id, amount, status, created_at`
const paymentMethodColumns = `id, user_id, card_number, cvv, billing_zip, exp_month, exp_year, hidden, created_at`

// ListPayments retrieves all payments of a user, newest first
func (r *PaymentRepository) ListPayments(userID int64) ([]models.Payment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		paymentColumns)

	payments := []models.Payment{}
	if err := r.db.Select(&payments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// GetPayment retrieves a payment. Returns sql.ErrNoRows when it does not
// exist.
func (r *PaymentRepository) GetPayment(id int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)

	if err := r.db.Get(payment, query, id); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListMethods retrieves a user's visible payment methods
func (r *PaymentRepository) ListMethods(userID int64) ([]models.PaymentMethod, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM payment_methods WHERE user_id = $1 AND hidden = FALSE ORDER BY id`,
		paymentMethodColumns)

	methods := []models.PaymentMethod{}
	if err := r.db.Select(&methods, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// GetMethod retrieves a payment method regardless of visibility. Returns
// sql.ErrNoRows when it does not exist.
func (r *PaymentRepository) GetMethod(id int64) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{}
	query := fmt.Sprintf(`SELECT %s FROM payment_methods WHERE id = $1`, paymentMethodColumns)

	if err := r.db.Get(method, query, id); err != nil {
		return nil, err
	}
	return method, nil
}

// CreateMethod inserts a payment method and fills in its id and created_at
func (r *PaymentRepository) CreateMethod(method *models.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (user_id, card_number, cvv, billing_zip, exp_month, exp_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowx(query,
		method.UserID, method.CardNumber, method.CVV, method.BillingZip,
		method.ExpMonth, method.ExpYear,
	).Scan(&method.ID, &method.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// UpdateMethod applies a partial update and returns the stored row
func (r *PaymentRepository) UpdateMethod(id int64, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	query := fmt.Sprintf(`
		UPDATE payment_methods
		SET card_number = COALESCE($1, card_number),
		    cvv = COALESCE($2, cvv),
		    billing_zip = COALESCE($3, billing_zip),
		    exp_month = COALESCE($4, exp_month),
		    exp_year = COALESCE($5, exp_year)
		WHERE id = $6
		RETURNING %s`, paymentMethodColumns)

	method := &models.PaymentMethod{}
	err := r.db.Get(method, query, req.CardNumber, req.CVV, req.BillingZip, req.ExpMonth, req.ExpYear, id)
	if err != nil {
		return nil, err
	}
	return method, nil
}

// HideMethod soft-deletes a payment method so historical payments keep
// their reference
func (r *PaymentRepository) HideMethod(id int64) error {
	_, err := r.db.Exec(`UPDATE payment_methods SET hidden = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to hide payment method: %w", err)
	}
	return nil
}
