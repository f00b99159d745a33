// Package errors provides structured error types for algoreel.
//
// Errors carry a machine-readable [Code] so the CLI, the preview server and
// the pipeline can react to a failure class without string matching:
//
//	err := errors.New(errors.ErrCodeInvalidScene, "unknown scene: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidScene) {
//	    // list the available scenes
//	}
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures (bad flags, bad datasets)
//   - EMPTY_INPUT: a scene or layout was given nothing to work with
//   - ENCODER_*: problems locating or running external encoders
//   - RENDER_FAILED / INTERNAL_ERROR: unexpected failures while producing output
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidInsertion Code = "INVALID_INSERTION"
	ErrCodeInvalidScene     Code = "INVALID_SCENE"
	ErrCodeInvalidQuality   Code = "INVALID_QUALITY"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeEmptyInput       Code = "EMPTY_INPUT"

	// Resource errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeEncoderNotFound Code = "ENCODER_NOT_FOUND"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeEncodeFailed Code = "ENCODE_FAILED"

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
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err would fail every remaining scene of a run, so a
// batch must stop instead of moving on: a missing encoder, unusable render
// settings or configuration, or a cancelled context. Problems with one
// scene's dataset (bad values, layout collisions, empty input) are not fatal.
func Fatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch GetCode(err) {
	case ErrCodeEncoderNotFound, ErrCodeInvalidQuality, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return true
	}
	return false
}
