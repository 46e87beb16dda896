package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Every failed operation reports exactly one kind.
type Kind string

const (
	// KindAuthRequired means no caller identity could be resolved.
	KindAuthRequired Kind = "AUTH_REQUIRED"
	// KindNotFound means a single-row lookup matched nothing.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict means a uniqueness constraint was violated.
	KindConflict Kind = "CONFLICT"
	// KindInvalidInput means request parameters failed validation before any store call.
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindForbidden means an authenticated caller may not perform the action,
	// for example because the companion quota is spent.
	KindForbidden Kind = "FORBIDDEN"
	// KindStore covers every other store or transport failure.
	KindStore Kind = "STORE_ERROR"
	// KindUnexpected covers anything raised outside the anticipated paths.
	KindUnexpected Kind = "UNEXPECTED_ERROR"
)

// StatusCode maps a kind to the HTTP status used by the JSON API.
func (k Kind) StatusCode() int {
	switch k {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates an application error of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{
		StatusCode: kind.StatusCode(),
		Kind:       kind,
		Code:       string(kind),
		Message:    message,
	}
}

// NewError creates a new application error with an explicit status and code
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Kind:       KindUnexpected,
		Code:       code,
		Message:    message,
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	e := NewError(http.StatusBadRequest, code, message)
	e.Kind = KindInvalidInput
	return e
}

// NewTooManyRequestsError creates a 429 Too Many Requests error
func NewTooManyRequestsError(code string, message string) *AppError {
	return NewError(http.StatusTooManyRequests, code, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(code string, message string) *AppError {
	e := NewError(http.StatusUnauthorized, code, message)
	e.Kind = KindAuthRequired
	return e
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code string, message string) *AppError {
	e := NewError(http.StatusNotFound, code, message)
	e.Kind = KindNotFound
	return e
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// KindOf reports the kind carried by err, or KindUnexpected.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Is checks if err is an AppError with the same code as target
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == target.Code
}
