package errors

import (
	"net/http"

	"accounts/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithMessage returns a copy of the error carrying a different user-facing message.
// The copy still matches the original with errors.Is.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
		details:   e.details,
	}
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError that shares the same error code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Input errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid input",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusBadRequest,
		"CONFLICT",
		"Email or username already exists",
		"",
	)

	// ErrDuplicateResource is raised when the store's unique index rejects a write
	// that slipped past the lookup checks.
	ErrDuplicateResource = NewBaseError(
		http.StatusBadRequest,
		"DUPLICATE_RESOURCE",
		"Email or username already exists",
		"",
	)

	// Access errors. Ownership violations answer 404 so other accounts are not revealed.
	ErrAuthorizationFailed = NewBaseError(
		http.StatusNotFound,
		"AUTHORIZATION_FAILED",
		"Bad auth provided.",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Unauthorized",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CREDENTIALS",
		"Password incorrect",
		"",
	)

	// Infrastructure errors. Their details are never sent to clients.
	ErrPersistenceFailed = NewBaseError(
		http.StatusInternalServerError,
		"PERSISTENCE_FAILED",
		"Something went wrong, please try again later",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Something went wrong, please try again later",
		"",
	)

	ErrTokenSigningFailed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_SIGNING_FAILED",
		"Something went wrong, please try again later",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error, please try again later",
		"",
	)
)

// DatabaseExecuteError represents a store failure, implementing the AppError interface.
// Retryable is set when the failure was transient (timeout, dropped connection).
type DatabaseExecuteError struct {
	err       error
	details   string
	retryable bool
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) *DatabaseExecuteError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// NewRetryableDatabaseError creates a database error the caller may safely retry.
func NewRetryableDatabaseError(err error, details string) *DatabaseExecuteError {
	return &DatabaseExecuteError{
		err:       err,
		details:   details,
		retryable: true,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Is lets callers match store failures against ErrPersistenceFailed.
func (e *DatabaseExecuteError) Is(target error) bool {
	return target == ErrPersistenceFailed
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return ErrPersistenceFailed.HTTPCode()
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return ErrPersistenceFailed.ErrorCode()
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return ErrPersistenceFailed.Message()
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// Retryable reports whether the failure was transient.
func (e *DatabaseExecuteError) Retryable() bool {
	return e.retryable
}

// IsUnexpected reports whether err is an infrastructure failure (5xx) rather than an
// expected outcome such as a validation or credential error.
func IsUnexpected(err error) bool {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode() >= http.StatusInternalServerError
	}

	return true
}
