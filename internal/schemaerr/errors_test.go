package schemaerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", New(ErrCodeNotFound, "schema %d", 3), ErrCodeNotFound, true},
		{"other code", New(ErrCodeNotFound, "x"), ErrCodeStorageConflict, false},
		{"wrapped by fmt", fmt.Errorf("toggle: %w", New(ErrCodeStorageConflict, "page 1")), ErrCodeStorageConflict, true},
		{"validation", &ValidationError{Type: "Product"}, ErrCodeValidation, true},
		{"plain", errors.New("boom"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.code))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeInternal, cause, "load page %d", 7)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL_ERROR: load page 7: connection reset", err.Error())
	assert.Equal(t, "load page 7", UserMessage(err))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Type: "LocalBusiness",
		Issues: []Issue{
			{Field: "name", Message: "is required"},
			{Field: "@context", Message: "is missing"},
		},
	}

	assert.Equal(t, "LocalBusiness: name is required; @context is missing", UserMessage(err))
	assert.Equal(t, ErrCodeValidation, GetCode(fmt.Errorf("wrap: %w", err)))
}
