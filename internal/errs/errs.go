// Package errs defines the domain error taxonomy shared by services and handlers.
// Callers match with errors.Is; handlers turn them into a status code and a
// generic message.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInternal              = errors.New("internal error")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Field)
	}
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Field, e.Msg)
}

func (e ValidationError) Unwrap() error { return ErrValidation }

// Required returns a ValidationError for a field that was left empty.
func Required(field string) error {
	return ValidationError{Field: field, Msg: "is required"}
}

// Internal wraps err so that it matches ErrInternal while keeping the cause
// available for logging.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}
