// Package errors provides structured error types for stackdistro.
//
// Every fatal condition in the build and docs pipelines is reported as an
// *Error carrying a machine-readable Code. The CLI prints the message (and
// the hint, when present) and exits non-zero; nothing is retried.
//
// # Error Codes
//
//   - ENVIRONMENT: a required external command is not installed
//   - VERSION_MISMATCH: the installed base dependency differs from configuration
//   - PARSE: a resolver output line could not be tokenized
//   - TEMPLATE: the recipe template is missing or malformed
//   - INVALID_RECIPE: an assembled instruction is not safe shell
//   - INVALID_CONFIG: a configuration file could not be loaded or is invalid
//   - LOOKUP_FAILED: a best-effort metadata lookup failed (recovered by callers)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: unbalanced quotes", n)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTemplate, origErr, "read template %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Toolchain errors
	ErrCodeEnvironment     Code = "ENVIRONMENT"
	ErrCodeVersionMismatch Code = "VERSION_MISMATCH"
	ErrCodeCommandFailed   Code = "COMMAND_FAILED"

	// Input errors
	ErrCodeParse         Code = "PARSE"
	ErrCodeTemplate      Code = "TEMPLATE"
	ErrCodeInvalidRecipe Code = "INVALID_RECIPE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Best-effort lookups
	ErrCodeLookupFailed Code = "LOOKUP_FAILED"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Hint    string // Suggested remedy shown to the user (optional)
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

// WithHint sets the remedy shown below the message and returns e.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
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

// GetHint returns the hint of the first *Error in the chain that has one.
func GetHint(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Hint != "" {
			return e.Hint
		}
		err = e.Cause
	}
	return ""
}

// VersionMismatchError reports that the installed base dependency does not
// match the configured one.
type VersionMismatchError struct {
	Expected  string
	Installed string
}

// Error implements the error interface.
func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch: expected %s, installed %s", e.Expected, e.Installed)
}

// Code returns the error code for this error type.
func (e *VersionMismatchError) Code() Code {
	return ErrCodeVersionMismatch
}
