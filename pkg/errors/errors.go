// Package errors provides structured error types for pipeviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI, and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - DUPLICATE_*: Attempts to register something twice
//   - NOT_FOUND / STAGE_NOT_FOUND: Lookups that found nothing
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	_, err := op.Create("IF", 0)
//	if errors.Is(err, errors.ErrCodeDuplicateStage) {
//	    // stage already exists on this instruction
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model construction errors
	ErrCodeDuplicateStage      Code = "DUPLICATE_STAGE"
	ErrCodeStageNotFound       Code = "STAGE_NOT_FOUND"
	ErrCodeInvalidChainOperand Code = "INVALID_CHAIN_OPERAND"
	ErrCodeEmptyChain          Code = "EMPTY_CHAIN"
	ErrCodeDuplicateOp         Code = "DUPLICATE_OP"
	ErrCodeDanglingNode        Code = "DANGLING_NODE"

	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidRoutingMode Code = "INVALID_ROUTING_MODE"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidColor       Code = "INVALID_COLOR"
	ErrCodeInvalidLineStyle   Code = "INVALID_LINE_STYLE"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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

// IsValidation reports whether err carries one of the input validation codes.
// The HTTP server maps these to 400 responses.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRoutingMode, ErrCodeInvalidStyle,
		ErrCodeInvalidColor, ErrCodeInvalidLineStyle, ErrCodeInvalidConfig,
		ErrCodeInvalidFormat:
		return true
	}
	return false
}
