package errors

import (
	"errors"
	"net/http"
)

// FromError converts a standard error to an AppError.
// If the error is already an AppError, it is returned as-is; otherwise it is
// reported as an internal error without leaking the original text.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return New(KindUnexpected, "An unexpected error occurred.")
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorMessage extracts the error message, returns a generic message if not an AppError
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred."
}
