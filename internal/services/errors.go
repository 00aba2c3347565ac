package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP statuses with errors.Is; anything unrecognized becomes a generic
// server error. ErrUnauthenticated and ErrForbidden are deliberately
// distinct: the first means "retry with credentials", the second means
// "this principal will never be allowed".
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not authorized")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidImage       = errors.New("uploaded file is not a valid image")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a malformed field. It is detected before any
// write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
