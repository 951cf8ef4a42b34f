package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrInvalidInput indicates a record that does not fit the registration shape
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConnected indicates the document store was never reachable
	ErrNotConnected = errors.New("database is not connected")

	// ErrStorage indicates the uploaded file could not be written
	ErrStorage = errors.New("storage failure")
)

// ValidationError collects every field problem found in a single record
type ValidationError struct {
	Resource string
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := e.Resource + " validation failed"
	for i, p := range e.Problems {
		if i == 0 {
			msg += ": " + p
		} else {
			msg += ", " + p
		}
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidInput
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// StorageError wraps a file write failure
func StorageError(name string, err error) error {
	return fmt.Errorf("failed to store %s: %w: %w", name, ErrStorage, err)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
