// Package errors defines the application-facing error taxonomy. Every
// user-visible failure carries a stable numeric business code alongside the
// HTTP status used by the delivery layer.
package errors

import (
	"net/http"

	"riskctl/internal/errors"
)

// Stable numeric business codes. These are part of the external contract
// and must not be renumbered.
const (
	CodeMissingParameter = 1001
	CodeInvalidParameter = 1002
	CodeOrderNotFound    = 2001
	CodeOrderCanceled    = 2002
	CodeStorageFailure   = 5001
	CodeInternal         = 9999
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int   // HTTP status code
	Code() int       // Stable numeric business code
	Message() string // User-friendly error message
	Details() string // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode int
	code     int
	message  string
	details  string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode, code int, message, details string) *BaseError {
	return &BaseError{
		httpCode: httpCode,
		code:     code,
		message:  message,
		details:  details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// Code returns the stable numeric business code.
func (e *BaseError) Code() int {
	return e.code
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode: e.httpCode,
		code:     e.code,
		message:  e.message,
		details:  details,
	}
}

// Predefined error types
var (
	// Validation errors. Deterministic: never retried, never logged as
	// failures by the engines.
	ErrMissingParameter = NewBaseError(
		http.StatusBadRequest,
		CodeMissingParameter,
		"missing required parameter",
		"",
	)

	ErrInvalidParameter = NewBaseError(
		http.StatusBadRequest,
		CodeInvalidParameter,
		"malformed parameter",
		"",
	)

	// Cancellation business-rule violations.
	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		CodeOrderNotFound,
		"refund order not found",
		"",
	)

	ErrOrderAlreadyCanceled = NewBaseError(
		http.StatusConflict,
		CodeOrderCanceled,
		"refund order already canceled",
		"",
	)

	// Storage failures. Safe to retry for report thanks to idempotency.
	ErrStorageFailure = NewBaseError(
		http.StatusInternalServerError,
		CodeStorageFailure,
		"storage operation failed",
		"",
	)

	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		CodeInternal,
		"internal error",
		"",
	)
)

// NewStorageError wraps a low-level storage failure with its cause attached
// as details.
func NewStorageError(err error, message string) error {
	storageErr := ErrStorageFailure.WithDetails(err.Error())

	return errors.Wrap(storageErr, message)
}
