package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
// Direct lookups surface it as a 404; creator-name resolution during
// export degrades to an empty name instead.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or out-of-range input. It is raised
// before any mutation, so a failed validation never leaves partial state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError reports a failed store commit. The whole logical write
// (a job with its items, or an expenditure) is rolled back before this is
// returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
