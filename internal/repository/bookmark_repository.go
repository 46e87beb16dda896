package repository

import (
	"context"

	"companion-app/frontend/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository is the store collaborator for the bookmarks table.
type BookmarkRepository interface {
	// Create fails with ErrConflict when the pair is already bookmarked.
	Create(ctx context.Context, bookmark *models.Bookmark) error
	// Delete removes the pair; deleting an absent bookmark is not an error.
	Delete(ctx context.Context, userID, companionID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error)
}

type GormBookmarkRepository struct {
	db *gorm.DB
}

func NewGormBookmarkRepository(db *gorm.DB) *GormBookmarkRepository {
	return &GormBookmarkRepository{db: db}
}

func (r *GormBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	return translate("add bookmark", r.db.WithContext(ctx).Create(bookmark).Error)
}

func (r *GormBookmarkRepository) Delete(ctx context.Context, userID, companionID string) error {
	err := r.db.WithContext(ctx).
		Where("companion_id = ? AND user_id = ?", companionID, userID).
		Delete(&models.Bookmark{}).Error
	return translate("remove bookmark", err)
}

func (r *GormBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error) {
	bookmarks := []models.Bookmark{}
	err := r.db.WithContext(ctx).
		Preload("Companion").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, translate("list bookmarks", err)
	}
	return bookmarks, nil
}
