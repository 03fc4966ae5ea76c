// Package errors provides structured error types for waypoint.
//
// Every failure the search core, the graph loaders, the CLI and the HTTP API
// report is an [*Error] carrying a machine-readable [Code]. This lets callers
// tell "the route does not exist within the bound" apart from "that city is
// not on the map" without string matching.
//
// # Error Codes
//
//   - UNKNOWN_NODE: the start or goal identifier is not a key of the graph
//   - DEPTH_EXHAUSTED: every depth bound was tried without reaching the goal
//   - SEARCH_ABORTED: the search was canceled or hit its visit limit
//   - MALFORMED_INPUT: an edge list, JSON graph or query file is unreadable
//   - INVALID_INPUT: an argument is out of range (max depth, names, paths)
//   - NOT_FOUND / INTERNAL_ERROR / UNSUPPORTED: plumbing failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "start node %q not in graph", start)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // report the missing location
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Search outcomes
	ErrCodeUnknownNode    Code = "UNKNOWN_NODE"
	ErrCodeDepthExhausted Code = "DEPTH_EXHAUSTED"
	ErrCodeSearchAborted  Code = "SEARCH_ABORTED"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
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
// It unwraps the error chain looking for an *Error with a matching code;
// the outermost *Error decides.
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

// Retryable reports whether a caller may reasonably repeat the operation
// that produced err with different parameters. Only DEPTH_EXHAUSTED qualifies:
// retrying with a larger max depth is the caller's decision.
func Retryable(err error) bool {
	return Is(err, ErrCodeDepthExhausted)
}
