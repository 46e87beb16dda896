// Package revalidate invalidates rendered pages after a mutation so the next
// request re-reads the store.
package revalidate

import (
	"context"
	"sync"

	"companion-app/frontend/pkg/logger"
)

// Revalidator marks the page at path stale. It never fails the caller.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

// Invalidator drops cached renderings of a path.
type Invalidator interface {
	Invalidate(path string)
}

// Local evicts the in-process page cache only.
type Local struct {
	pages Invalidator
	log   *logger.Logger
}

// NewLocal creates a single-instance revalidator. pages may be nil when page
// caching is disabled.
func NewLocal(pages Invalidator, log *logger.Logger) *Local {
	return &Local{pages: pages, log: log}
}

func (l *Local) Revalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if l.pages != nil {
		l.pages.Invalidate(path)
	}
	logger.FromContext(ctx, l.log).Debug("Revalidated page", "path", path)
}

// Recorder remembers revalidated paths. Used by tests.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Revalidate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Paths returns the revalidated paths in call order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
