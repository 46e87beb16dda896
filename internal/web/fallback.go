package web

import (
	"companion-app/frontend/internal/result"
	"companion-app/frontend/internal/web/views"
)

// FallbackPolicy decides what a page shows when a listing fails: an empty
// list and an error toast. The toast carries the envelope's message, or
// the section's default message when the envelope has none.
type FallbackPolicy struct {
	ToastLevel string
}

// DefaultFallback is the policy used by every page.
var DefaultFallback = FallbackPolicy{ToastLevel: "error"}

// List unwraps res, falling back to an empty slice. The returned toast is
// nil on success.
func List[T any](p FallbackPolicy, res result.Result[[]T], defaultMessage string) ([]T, *views.Toast) {
	if res.Success {
		if res.Data == nil {
			return []T{}, nil
		}
		return res.Data, nil
	}
	message := res.Message
	if message == "" {
		message = defaultMessage
	}
	return []T{}, &views.Toast{Level: p.ToastLevel, Message: message}
}
