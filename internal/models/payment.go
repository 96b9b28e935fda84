package models

import "time"

// Payment is a read-only record of a completed charge (payments table).
// There is no gateway integration; rows are written by external tooling.
type Payment struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	BookingID *int64    `json:"booking_id" db:"booking_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PaymentMethod is a stored card (payment_methods table). Deleting a method
// only hides it so historic payments keep their reference.
type PaymentMethod struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	CardNumber string    `json:"card_number" db:"card_number"`
	CVV        string    `json:"-" db:"cvv"`
	BillingZip string    `json:"billing_zip" db:"billing_zip"`
	ExpMonth   int       `json:"exp_month" db:"exp_month"`
	ExpYear    int       `json:"exp_year" db:"exp_year"`
	Hidden     bool      `json:"-" db:"hidden"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaymentMethodRequest carries create/update fields for payment methods.
// Pointer fields distinguish missing keys from zero values.
type PaymentMethodRequest struct {
	CardNumber *string `json:"card_number"`
	CVV        *string `json:"cvv"`
	BillingZip *string `json:"billing_zip"`
	ExpMonth   *int    `json:"exp_month"`
	ExpYear    *int    `json:"exp_year"`
}

// HasAllFields reports whether every required card field is present
func (r *PaymentMethodRequest) HasAllFields() bool {
	return r.CardNumber != nil && r.CVV != nil && r.BillingZip != nil &&
		r.ExpMonth != nil && r.ExpYear != nil
}
