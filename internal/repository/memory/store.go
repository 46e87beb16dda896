// Package memory provides in-process repositories with the same observable
// semantics as the Gorm ones. It backs DB_DRIVER=memory and the tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/repository"

	"github.com/google/uuid"
)

// Store holds the three tables behind a single lock.
type Store struct {
	mu         sync.RWMutex
	companions []models.Companion
	sessions   []models.SessionHistoryEntry
	bookmarks  []models.Bookmark
	failures   map[string]error
	now        func() time.Time
	seq        time.Duration
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// Fail makes every subsequent call of op return err until cleared with a nil err.
// Ops are "companions.create", "companions.list", "companions.get",
// "companions.by_author", "companions.count", "sessions.create",
// "sessions.list", "bookmarks.create", "bookmarks.delete" and "bookmarks.list".
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = &repository.Error{Op: op, Err: err}
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

// stamp returns strictly increasing timestamps so insertion order survives
// equal wall-clock readings.
func (s *Store) stamp() time.Time {
	s.seq++
	return s.now().Add(s.seq * time.Nanosecond)
}

func (s *Store) companionByID(id string) *models.Companion {
	for i := range s.companions {
		if s.companions[i].ID == id {
			c := s.companions[i]
			return &c
		}
	}
	return nil
}

// Companions returns the companion repository view.
func (s *Store) Companions() *CompanionRepository { return &CompanionRepository{s: s} }

// Sessions returns the session history repository view.
func (s *Store) Sessions() *SessionRepository { return &SessionRepository{s: s} }

// Bookmarks returns the bookmark repository view.
func (s *Store) Bookmarks() *BookmarkRepository { return &BookmarkRepository{s: s} }

type CompanionRepository struct{ s *Store }

var _ repository.CompanionRepository = (*CompanionRepository)(nil)

func (r *CompanionRepository) Create(_ context.Context, companion *models.Companion) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("companions.create"); err != nil {
		return err
	}
	for _, c := range s.companions {
		if c.Author == companion.Author && c.Name == companion.Name {
			return repository.ErrConflict
		}
	}
	if companion.ID == "" {
		companion.ID = uuid.NewString()
	}
	if companion.CreatedAt.IsZero() {
		companion.CreatedAt = s.stamp()
	}
	s.companions = append(s.companions, *companion)
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *CompanionRepository) List(_ context.Context, params models.ListCompanionsParams) ([]models.Companion, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("companions.list"); err != nil {
		return nil, err
	}
	matched := []models.Companion{}
	for _, c := range s.companions {
		if params.Subject != "" && !containsFold(c.Subject, params.Subject) {
			continue
		}
		if params.Topic != "" && !containsFold(c.Topic, params.Topic) && !containsFold(c.Name, params.Topic) {
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	from, to := params.Range()
	if from >= len(matched) || to < from {
		return []models.Companion{}, nil
	}
	if to >= len(matched) {
		to = len(matched) - 1
	}
	return matched[from : to+1], nil
}

func (r *CompanionRepository) GetByID(_ context.Context, id string) (*models.Companion, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("companions.get"); err != nil {
		return nil, err
	}
	if c := s.companionByID(id); c != nil {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *CompanionRepository) ListByAuthor(_ context.Context, author string) ([]models.Companion, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("companions.by_author"); err != nil {
		return nil, err
	}
	out := []models.Companion{}
	for _, c := range s.companions {
		if c.Author == author {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CompanionRepository) CountByAuthor(_ context.Context, author string) (int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("companions.count"); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range s.companions {
		if c.Author == author {
			n++
		}
	}
	return n, nil
}

type SessionRepository struct{ s *Store }

var _ repository.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(_ context.Context, entry *models.SessionHistoryEntry) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("sessions.create"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.stamp()
	}
	stored := *entry
	stored.Companion = nil
	s.sessions = append(s.sessions, stored)
	return nil
}

func (r *SessionRepository) List(_ context.Context, query models.SessionQuery) ([]models.SessionHistoryEntry, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("sessions.list"); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = models.DefaultSessionLimit
	}
	out := []models.SessionHistoryEntry{}
	for i := len(s.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		entry := s.sessions[i]
		if query.UserID != "" && entry.UserID != query.UserID {
			continue
		}
		entry.Companion = s.companionByID(entry.CompanionID)
		out = append(out, entry)
	}
	return out, nil
}

type BookmarkRepository struct{ s *Store }

var _ repository.BookmarkRepository = (*BookmarkRepository)(nil)

func (r *BookmarkRepository) Create(_ context.Context, bookmark *models.Bookmark) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("bookmarks.create"); err != nil {
		return err
	}
	for _, b := range s.bookmarks {
		if b.UserID == bookmark.UserID && b.CompanionID == bookmark.CompanionID {
			return repository.ErrConflict
		}
	}
	if bookmark.ID == "" {
		bookmark.ID = uuid.NewString()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = s.stamp()
	}
	stored := *bookmark
	stored.Companion = nil
	s.bookmarks = append(s.bookmarks, stored)
	return nil
}

func (r *BookmarkRepository) Delete(_ context.Context, userID, companionID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("bookmarks.delete"); err != nil {
		return err
	}
	kept := s.bookmarks[:0]
	for _, b := range s.bookmarks {
		if b.UserID == userID && b.CompanionID == companionID {
			continue
		}
		kept = append(kept, b)
	}
	s.bookmarks = kept
	return nil
}

func (r *BookmarkRepository) ListByUser(_ context.Context, userID string) ([]models.Bookmark, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("bookmarks.list"); err != nil {
		return nil, err
	}
	out := []models.Bookmark{}
	for i := len(s.bookmarks) - 1; i >= 0; i-- {
		b := s.bookmarks[i]
		if b.UserID != userID {
			continue
		}
		b.Companion = s.companionByID(b.CompanionID)
		out = append(out, b)
	}
	return out, nil
}
