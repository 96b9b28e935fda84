package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrEmptyCardNumber indicates the card number is empty
	ErrEmptyCardNumber = errors.New("card number cannot be empty")

	// ErrInvalidCardFormat indicates the card number contains invalid characters
	ErrInvalidCardFormat = errors.New("card number can only contain digits")

	// ErrInvalidCardLength indicates the card number length is out of range
	ErrInvalidCardLength = errors.New("card number must be between 12 and 19 digits")

	// ErrInvalidCardChecksum indicates the card number fails the Luhn check
	ErrInvalidCardChecksum = errors.New("card number is not valid")

	// ErrInvalidExpiry indicates the expiry month or year is out of range
	ErrInvalidExpiry = errors.New("expiry month must be 1-12 and year a four digit year")

	// ErrCardExpired indicates the expiry date is in the past
	ErrCardExpired = errors.New("card has expired")

	// ErrInvalidCVV indicates the cvv is not 3 or 4 digits
	ErrInvalidCVV = errors.New("cvv must be 3 or 4 digits")
)

var (
	digitsRegex = regexp.MustCompile(`^\d+$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
)

// CardValidator handles payment card validation
type CardValidator struct{}

// NewCardValidator creates a new card validator instance
func NewCardValidator() *CardValidator {
	return &CardValidator{}
}

// ValidateNumber validates a card number.
// Accepts format: 4242424242424242 or 4242 4242 4242 4242 or 4242-4242-4242-4242
// Returns the sanitized number (digits only) and error if invalid.
func (v *CardValidator) ValidateNumber(number string) (string, error) {
	if number == "" {
		return "", ErrEmptyCardNumber
	}

	sanitized := v.Sanitize(number)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidCardFormat
	}
	if len(sanitized) < 12 || len(sanitized) > 19 {
		return "", ErrInvalidCardLength
	}
	if !luhnValid(sanitized) {
		return "", ErrInvalidCardChecksum
	}

	return sanitized, nil
}

// Sanitize removes spaces and dashes from a card number
func (v *CardValidator) Sanitize(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")
	return number
}

// ValidateExpiry validates an expiry month and year against the given moment
func (v *CardValidator) ValidateExpiry(month, year int, now time.Time) error {
	if month < 1 || month > 12 || year < 1000 || year > 9999 {
		return ErrInvalidExpiry
	}

	// The card is valid through the last moment of its expiry month
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0)
	if !now.Before(endOfMonth) {
		return ErrCardExpired
	}

	return nil
}

// ValidateCVV validates a card security code
func (v *CardValidator) ValidateCVV(cvv string) error {
	if !cvvRegex.MatchString(cvv) {
		return ErrInvalidCVV
	}
	return nil
}

// Mask returns the card number with all but the last four digits hidden
func (v *CardValidator) Mask(number string) string {
	sanitized := v.Sanitize(number)
	if len(sanitized) <= 4 {
		return sanitized
	}
	return fmt.Sprintf("%s%s", strings.Repeat("*", len(sanitized)-4), sanitized[len(sanitized)-4:])
}

// IsValid is a convenience method that returns true if the number is valid
func (v *CardValidator) IsValid(number string) bool {
	_, err := v.ValidateNumber(number)
	return err == nil
}

// luhnValid reports whether the digit string passes the Luhn checksum
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
