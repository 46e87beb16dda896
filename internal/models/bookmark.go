package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark marks a companion as saved by a user; unique per (user, companion).
type Bookmark struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;uniqueIndex:idx_bookmarks_user_companion"`
	CompanionID string     `json:"companion_id" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_companion"`
	Companion   *Companion `json:"companions,omitempty" gorm:"foreignKey:CompanionID;references:ID"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName pins the table name used by the hosted schema.
func (Bookmark) TableName() string { return "bookmarks" }

// BeforeCreate assigns a generated id.
func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
