// Package errors provides structured errors with a code, a message and an
// actionable suggestion.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig      = "CONFIG"
	ErrTerminal    = "TERMINAL"
	ErrSample      = "SAMPLE"
	ErrAction      = "ACTION"
	ErrUnsupported = "UNSUPPORTED"
	ErrNotFound    = "NOT_FOUND"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrSample code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrSample,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns the message and cause on a single line, for status bars.
func (e *Error) Short() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// Summary renders err on one line. Structured errors use Short, anything
// else its Error text.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Short()
	}
	return err.Error()
}
