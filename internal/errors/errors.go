package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates invalid input caught before any remote call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeRejected indicates a structured rejection returned by the backend.
	ErrCodeRejected ErrorCode = "rejected"
	// ErrCodeUnreachable indicates the backend could not be reached at all.
	ErrCodeUnreachable ErrorCode = "unreachable"
	// ErrCodeStorage indicates a durable storage fault.
	ErrCodeStorage ErrorCode = "storage"
	// ErrCodeInProgress indicates a conflicting operation is already running.
	ErrCodeInProgress ErrorCode = "in_progress"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Rejected creates a new Rejected error carrying a server-supplied message.
func Rejected(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRejected,
		Message: message,
	}
}

// Rejectedf creates a new Rejected error with formatted message.
func Rejectedf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeRejected,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unreachable creates a new Unreachable error wrapping the transport failure.
func Unreachable(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeUnreachable,
		Message: message,
		Cause:   cause,
	}
}

// Storage creates a new Storage error wrapping the underlying fault.
func Storage(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: message,
		Cause:   cause,
	}
}

// InProgress creates a new InProgress error.
func InProgress(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInProgress,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsRejected checks if an error is a Rejected error.
func IsRejected(err error) bool {
	return isCode(err, ErrCodeRejected)
}

// IsUnreachable checks if an error is an Unreachable error.
func IsUnreachable(err error) bool {
	return isCode(err, ErrCodeUnreachable)
}

// IsStorage checks if an error is a Storage error.
func IsStorage(err error) bool {
	return isCode(err, ErrCodeStorage)
}

// IsInProgress checks if an error is an InProgress error.
func IsInProgress(err error) bool {
	return isCode(err, ErrCodeInProgress)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the message suitable for direct display to the user.
// Server rejections carry their own message; anything else falls back to the
// provided default so raw transport errors never leak into the UI.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == ErrCodeRejected && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
