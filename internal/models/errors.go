// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrNotFoundOrNotEditable = errors.New("entry not found or not editable")
	ErrAlreadyExists         = errors.New("already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInactiveAccount       = errors.New("account is deactivated")
	ErrValidation            = errors.New("validation failed")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
