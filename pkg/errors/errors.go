// Package errors provides structured error types for pagepack.
//
// Every fatal condition of a run is reported as an *Error carrying a
// machine-readable Code, a human-readable message naming the offending input,
// and the underlying cause. The CLI prints UserMessage on failure and the
// tests match on codes with Is.
//
// # Error Codes
//
//   - INVALID_*: option or input validation failures
//   - DECODE_FAILURE: an input image could not be decoded
//   - IMAGE_TOO_LARGE: an image does not fit alone on an empty page
//   - IO_FAILURE: reading a directory or writing the document failed
//   - CACHE_ERROR, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeDecode, cause, "decode %s", path)
//	if errors.Is(err, errors.ErrCodeDecode) {
//	    // report the path
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPaper Code = "INVALID_PAPER"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Placement errors
	ErrCodeDecode         Code = "DECODE_FAILURE"
	ErrCodeImageTooLarge  Code = "IMAGE_TOO_LARGE"
	ErrCodeNothingToPlace Code = "NOTHING_TO_PLACE"

	// I/O errors
	ErrCodeIO    Code = "IO_FAILURE"
	ErrCodeCache Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Offending input, if any
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

// WithPath records the offending input on e and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
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

// GetPath returns the offending input recorded on the first *Error in the
// chain, or "" if there is none.
func GetPath(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and its cause without the code prefix.
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
