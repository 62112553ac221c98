// Package errors provides structured error types for dotlayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the parser, CLI and HTTP handler
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages that the handler can report verbatim
//
// # Error Codes
//
// Parse errors are raised by pkg/dot and are always fatal to the parse call:
//   - NUMBER_FORMAT: a numeric token did not parse as a float
//   - MALFORMED_SPLINE: an arrow-prefixed pos value had the wrong shape
//   - DATA_INVARIANT: a node pos did not hold exactly one point
//   - MALFORMED_STATEMENT: attribute text outside the key=value grammar (strict mode only)
//
// The remaining codes belong to the surrounding service (input validation,
// layout invocation, caching).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNumberFormat, "invalid number %q", raw)
//	if errors.Is(err, errors.ErrCodeNumberFormat) {
//	    // Handle bad input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayout, origErr, "run %s", engine)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Parse errors
	ErrCodeNumberFormat       Code = "NUMBER_FORMAT"
	ErrCodeMalformedSpline    Code = "MALFORMED_SPLINE"
	ErrCodeDataInvariant      Code = "DATA_INVARIANT"
	ErrCodeMalformedStatement Code = "MALFORMED_STATEMENT"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Collaborator errors
	ErrCodeLayout Code = "LAYOUT_FAILED"
	ErrCodeCache  Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsParseError reports whether err was raised by the parser rather than by
// input validation or a collaborator.
func IsParseError(err error) bool {
	switch GetCode(err) {
	case ErrCodeNumberFormat, ErrCodeMalformedSpline, ErrCodeDataInvariant, ErrCodeMalformedStatement:
		return true
	}
	return false
}
