package domain

import (
	"errors"
	"net/http"
)

// Error codes for business logic errors.
const (
	CodeNotFound      = 1
	CodeAlreadyExists = 2
	CodeValidation    = 3
	CodeInternal      = 4
	CodeRetrieval     = 5
	CodeStorage       = 6
	CodeUnauthorized  = 7
	CodeForbidden     = 8
)

// FieldErrors maps an input field name to a human-readable problem.
type FieldErrors map[string]string

// AppError represents a business logic error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Fields  FieldErrors `json:"errors,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined business errors.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsRetrieval, etc.)
// instead of errors.Is. The helpers use errors.As with error-code
// comparison, so they correctly match any *AppError that carries the
// same code, including freshly constructed instances from NewAppError
// and wrapped errors. errors.Is only matches by pointer
// identity with the specific sentinel below.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized  = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden     = &AppError{Code: CodeForbidden, Message: "forbidden"}
	ErrInvalidCursor = &AppError{Code: CodeValidation, Message: "invalid cursor"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError wraps a field error map. It returns nil for an empty map
// so callers can write `if err := NewValidationError(fe); err != nil`.
func NewValidationError(fields FieldErrors) *AppError {
	if len(fields) == 0 {
		return nil
	}
	return &AppError{Code: CodeValidation, Message: "validation error", Fields: fields}
}

// NewRetrievalError reports a write whose immediate re-read found nothing.
func NewRetrievalError(message string) *AppError {
	return &AppError{Code: CodeRetrieval, Message: message}
}

// NewStorageError wraps a backend failure behind a stable, user-facing message.
func NewStorageError(message string, err error) *AppError {
	return &AppError{Code: CodeStorage, Message: message, Err: err}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsAlreadyExists reports whether err is or wraps an AppError with CodeAlreadyExists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, CodeAlreadyExists)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// IsRetrieval reports whether err is or wraps an AppError with CodeRetrieval.
func IsRetrieval(err error) bool {
	return hasCode(err, CodeRetrieval)
}

// IsStorage reports whether err is or wraps an AppError with CodeStorage.
func IsStorage(err error) bool {
	return hasCode(err, CodeStorage)
}

// IsUnauthorized reports whether err is or wraps an AppError with CodeUnauthorized.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

// IsForbidden reports whether err is or wraps an AppError with CodeForbidden.
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

// FieldErrorsOf returns the field error map carried by err, if any.
func FieldErrorsOf(err error) FieldErrors {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// Message returns the user-facing message of err. Non-AppError values yield
// fallback so that raw backend errors never reach a caller.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// hasCode checks whether err is or wraps an *AppError with the given code.
func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// If the error is an *AppError, the code is mapped; otherwise http.StatusInternalServerError is returned.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeAlreadyExists:
			return http.StatusConflict
		case CodeValidation:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeStorage:
			return http.StatusServiceUnavailable
		case CodeInternal, CodeRetrieval:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
