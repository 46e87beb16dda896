package repository

import (
	"context"

	"companion-app/frontend/internal/models"

	"gorm.io/gorm"
)

// SessionRepository is the store collaborator for the append-only
// session_history table.
type SessionRepository interface {
	Create(ctx context.Context, entry *models.SessionHistoryEntry) error
	// List returns entries newest first with their companion joined in.
	// Entries whose companion no longer resolves carry a nil Companion.
	List(ctx context.Context, query models.SessionQuery) ([]models.SessionHistoryEntry, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, entry *models.SessionHistoryEntry) error {
	return translate("add session history", r.db.WithContext(ctx).Create(entry).Error)
}

// SessionListSpecs builds the filter, ordering and cap for a session listing.
func SessionListSpecs(query models.SessionQuery) []Specification {
	var specs []Specification
	if query.UserID != "" {
		specs = append(specs, FilterBy{Field: "user_id", Value: query.UserID})
	}
	limit := query.Limit
	if limit <= 0 {
		limit = models.DefaultSessionLimit
	}
	return append(specs, OrderBy{Field: "created_at", Desc: true}, Limit{N: limit})
}

func (r *GormSessionRepository) List(ctx context.Context, query models.SessionQuery) ([]models.SessionHistoryEntry, error) {
	entries := []models.SessionHistoryEntry{}
	db := applySpecifications(r.db.WithContext(ctx).Preload("Companion"), SessionListSpecs(query)...)
	if err := db.Find(&entries).Error; err != nil {
		return nil, translate("list session history", err)
	}
	return entries, nil
}
