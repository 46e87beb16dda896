package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionHistoryEntry records that a user started a session with a
// companion. The log is append-only.
type SessionHistoryEntry struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	CompanionID string     `json:"companion_id" gorm:"type:uuid;not null;index"`
	Companion   *Companion `json:"companions,omitempty" gorm:"foreignKey:CompanionID;references:ID"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

// TableName pins the table name used by the hosted schema.
func (SessionHistoryEntry) TableName() string { return "session_history" }

// BeforeCreate assigns a generated id.
func (s *SessionHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SessionQuery selects session history rows, newest first.
// An empty UserID selects sessions of every user.
type SessionQuery struct {
	UserID string
	Limit  int
}

// DefaultSessionLimit bounds session listings when no limit is given.
const DefaultSessionLimit = 10
