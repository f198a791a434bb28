// Package schemaerr provides the structured error types shared by the schema
// graph components.
//
// Errors carry a machine-readable Code so the HTTP layer and the CLI can map
// them to status codes and messages without string matching:
//
//	err := schemaerr.New(schemaerr.ErrCodeNotFound, "schema %d not found", index)
//	if schemaerr.Is(err, schemaerr.ErrCodeNotFound) {
//	    // report a failed operation
//	}
package schemaerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

const (
	// ErrCodeConfigurationMissing marks an absent settings group. Callers fall
	// back to defaults; it is never fatal.
	ErrCodeConfigurationMissing Code = "CONFIGURATION_MISSING"
	// ErrCodeValidation marks a built document lacking a mandatory field.
	ErrCodeValidation Code = "VALIDATION_FAILURE"
	// ErrCodeNotFound marks a stale or out-of-range custom schema index,
	// or a missing page.
	ErrCodeNotFound Code = "NOT_FOUND"
	// ErrCodeStorageConflict marks a lost optimistic write; retry with a fresh read.
	ErrCodeStorageConflict Code = "STORAGE_CONFLICT"

	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeUnsupportedType Code = "UNSUPPORTED_TYPE"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *ValidationError.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return ErrCodeValidation
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.summary()
	}
	return err.Error()
}

// Issue is a single problem found while validating a document.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every issue found in one document.
type ValidationError struct {
	Type   string  `json:"type"`
	Issues []Issue `json:"issues"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeValidation, e.summary())
}

func (e *ValidationError) summary() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+" "+is.Message)
	}
	name := e.Type
	if name == "" {
		name = "document"
	}
	return name + ": " + strings.Join(parts, "; ")
}
