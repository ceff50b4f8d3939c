// Package errors provides structured error types for geofig.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the pipeline and the smoke runner
//   - Machine-readable failure kinds recorded in render metadata
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Figure failures use one code per stage that can end a figure early:
//   - SCHEMA: malformed or incomplete declarative input
//   - GEOMETRY_SOLVE: inconsistent or degenerate constraints
//   - LAYOUT: label placement fell back to a best-effort position
//   - RENDER_TIMEOUT: the per-figure wall-clock budget was exceeded
//   - RENDER: the artifact could not be encoded
//
// The remaining codes follow the INVALID_* / *_NOT_FOUND / INTERNAL_*
// convention for command-line and configuration problems.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGeometrySolve, "triangle %s is degenerate", name)
//	if errors.Is(err, errors.ErrCodeGeometrySolve) {
//	    // substitute a placeholder
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "encode %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Figure pipeline failures
	ErrCodeSchema        Code = "SCHEMA"
	ErrCodeGeometrySolve Code = "GEOMETRY_SOLVE"
	ErrCodeLayout        Code = "LAYOUT"
	ErrCodeRenderTimeout Code = "RENDER_TIMEOUT"
	ErrCodeRender        Code = "RENDER"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidLabel  Code = "INVALID_LABEL"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether a code ends the figure it was raised for.
// Layout fallbacks are recorded but never stop a render.
func (c Code) Fatal() bool {
	switch c {
	case ErrCodeLayout, "":
		return false
	}
	return true
}
