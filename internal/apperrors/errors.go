package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by services and repositories. They are converted to
// HTTP responses in exactly one place, the error handler installed on the
// Echo instance.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenInvalid = errors.New("invalid auth token")
	ErrTokenExpired = errors.New("expired auth token")
)

// FieldError describes a single failed validation rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of per-field failures for a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.Fields[0].Message)
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// DuplicateKeyError reports a violated unique constraint on the named field.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for field %q", e.Field)
}
