package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a transaction does not exist or is not owned by the caller.
var ErrNotFound = errors.New("transaction not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrTransport indicates that a remote call could not complete.
var ErrTransport = errors.New("remote transport failure")

// ErrStorage indicates that the local record store could not be written.
var ErrStorage = errors.New("local storage failure")

// ErrRemoteDisabled is returned by operations that require the remote store while it is switched off.
var ErrRemoteDisabled = errors.New("remote store is not enabled")

// ErrUnauthorized indicates that the request carries no authenticated principal.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
