package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Companion is a tutor persona in the catalog. Rows are owned by the hosted
// database; this layer creates and reads them but never deletes them.
type Companion struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_companions_author_name"`
	Subject   string    `json:"subject" gorm:"not null;index"`
	Topic     string    `json:"topic" gorm:"not null"`
	Voice     string    `json:"voice" gorm:"not null"`
	Style     string    `json:"style" gorm:"not null"`
	Duration  int       `json:"duration" gorm:"not null;default:15"`
	Author    string    `json:"author" gorm:"not null;index;uniqueIndex:idx_companions_author_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name used by the hosted schema.
func (Companion) TableName() string { return "companions" }

// BeforeCreate assigns a generated id when the caller did not supply one.
func (c *Companion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateCompanionRequest carries the form fields of the companion builder.
type CreateCompanionRequest struct {
	Name     string `json:"name" form:"name"`
	Subject  string `json:"subject" form:"subject"`
	Topic    string `json:"topic" form:"topic"`
	Voice    string `json:"voice" form:"voice"`
	Style    string `json:"style" form:"style"`
	Duration int    `json:"duration" form:"duration"`
}

// Normalize trims surrounding whitespace from every text field.
func (r *CreateCompanionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Voice = strings.TrimSpace(r.Voice)
	r.Style = strings.TrimSpace(r.Style)
}

// MissingField returns the first required field that is empty, or "".
func (r *CreateCompanionRequest) MissingField() string {
	switch {
	case r.Name == "":
		return "name"
	case r.Subject == "":
		return "subject"
	case r.Topic == "":
		return "topic"
	case r.Voice == "":
		return "voice"
	case r.Style == "":
		return "style"
	case r.Duration <= 0:
		return "duration"
	}
	return ""
}

// ToCompanion builds the row inserted for author.
func (r *CreateCompanionRequest) ToCompanion(author string) *Companion {
	return &Companion{
		Name:     r.Name,
		Subject:  r.Subject,
		Topic:    r.Topic,
		Voice:    r.Voice,
		Style:    r.Style,
		Duration: r.Duration,
		Author:   author,
	}
}

// ListCompanionsParams filters and paginates the catalog listing.
type ListCompanionsParams struct {
	Limit   int    `form:"limit"`
	Page    int    `form:"page"`
	Subject string `form:"subject"`
	Topic   string `form:"topic"`
}

// Default pagination values for catalog listings.
const (
	DefaultPageLimit = 10
	DefaultPage      = 1
)

// Normalized applies defaults and clamps the limit to maxLimit (ignored when <= 0).
func (p ListCompanionsParams) Normalized(maxLimit int) ListCompanionsParams {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if maxPage := math.MaxInt / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
	p.Subject = strings.TrimSpace(p.Subject)
	p.Topic = strings.TrimSpace(p.Topic)
	return p
}

// Range returns the inclusive zero-based row range for the page:
// [(page-1)*limit, page*limit-1]. Out-of-bounds values are normalized first,
// so the range never overflows.
func (p ListCompanionsParams) Range() (from, to int) {
	p = p.Normalized(0)
	return (p.Page - 1) * p.Limit, p.Page*p.Limit - 1
}

// CompanionsOf projects the joined companions out of rows, silently dropping
// rows whose companion link is absent.
func CompanionsOf[T any](rows []T, companion func(T) *Companion) []Companion {
	out := make([]Companion, 0, len(rows))
	for _, row := range rows {
		if c := companion(row); c != nil {
			out = append(out, *c)
		}
	}
	return out
}
