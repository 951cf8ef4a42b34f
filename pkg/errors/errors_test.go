package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Resource: "registration",
		Problems: []string{"firstName is required", "lastName is required"},
	}

	assert.Equal(t, "registration validation failed: firstName is required, lastName is required", err.Error())
	assert.True(t, Is(err, ErrInvalidInput))

	var target *ValidationError
	assert.True(t, As(err, &target))
	assert.Len(t, target.Problems, 2)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageError("1700000000000-me.png", cause)

	assert.True(t, Is(err, ErrStorage))
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "1700000000000-me.png")
	assert.Contains(t, err.Error(), "disk full")
}

func TestInvalidInputError(t *testing.T) {
	err := InvalidInputError("dob", "not a date")
	assert.Equal(t, "dob: not a date: invalid input", err.Error())
	assert.True(t, Is(err, ErrInvalidInput))
}
