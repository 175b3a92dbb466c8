// Package errors provides the unified error type and factory functions for
// SciText-Prep.  Every layer (pipeline, resolver, tokenizer, history store)
// uses AppError as the single carrier for structured error information so
// that fatal and non-fatal conditions can be told apart at the batch loop.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the single structured error type used throughout SciText-Prep.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently.
//
// Usage:
//
//	return errors.New(errors.ErrCodeLookupTimeout, "lookup for 'graphene oxide' timed out")
//	return errors.Wrap(ioErr, errors.ErrCodeHistoryRead, "failed to read search history")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (entity names, file paths, spans)
	// that aids debugging.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As traversal.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", detail omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// IsFatal reports whether this error must abort the whole batch.
func (e *AppError) IsFatal() bool {
	if e == nil {
		return false
	}
	return Fatal(e.Code)
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and message to an underlying error.
// Wrapping nil returns nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// NewInvalidInputError is a convenience factory for caller-usage errors.
func NewInvalidInputError(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// NewTimeoutError is a convenience factory for external-lookup timeouts.
func NewTimeoutError(message string) *AppError {
	return New(ErrCodeLookupTimeout, message)
}

// Code extracts the ErrorCode from any error in the chain.  Non-AppError
// values map to ErrCodeInternal; nil maps to the empty code.
func Code(err error) ErrorCode {
	if err == nil {
		return ErrorCode("")
	}
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code == code
	}
	return false
}

// IsFatal reports whether err carries a fatal code anywhere in its chain.
func IsFatal(err error) bool {
	var app *AppError
	if errors.As(err, &app) {
		return app.IsFatal()
	}
	return false
}
