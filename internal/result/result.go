// Package result defines the envelope every data-access operation returns:
// success with a payload, or failure with a user-facing message.
package result

import (
	"encoding/json"

	apperrors "companion-app/frontend/pkg/errors"
)

// Result is {success:true, data} or {success:false, message}. Kind is kept
// for callers that need to branch (HTTP status, 404 pages) and is never
// serialized.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Kind    apperrors.Kind
}

// OK wraps a successful payload.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed result.
func Fail[T any](kind apperrors.Kind, message string) Result[T] {
	return Result[T]{Kind: kind, Message: message}
}

// Is reports whether r failed with kind.
func (r Result[T]) Is(kind apperrors.Kind) bool {
	return !r.Success && r.Kind == kind
}

// Err converts a failed result to an *AppError, or nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = apperrors.KindUnexpected
	}
	return apperrors.New(kind, r.Message)
}

type successJSON[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MarshalJSON renders only the fields of the active variant.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(successJSON[T]{Success: true, Data: r.Data})
	}
	return json.Marshal(failureJSON{Success: false, Message: r.Message})
}
