package services

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller does not own the resource
	ErrForbidden = errors.New("access forbidden")

	// ErrEmailTaken indicates a registration attempt with an email that is
	// already in use
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError indicates a request that fails input validation. The
// message is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
