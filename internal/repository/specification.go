package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Specification narrows a query. Repositories apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

func applySpecifications(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, with LIKE
// wildcards in s matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// SubjectContains matches subject case-insensitively as a substring.
type SubjectContains struct {
	Subject string
}

func (s SubjectContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subject ILIKE ?", containsPattern(s.Subject))
}

// TopicOrNameContains matches topic OR name case-insensitively as a substring.
type TopicOrNameContains struct {
	Topic string
}

func (s TopicOrNameContains) Apply(db *gorm.DB) *gorm.DB {
	p := containsPattern(s.Topic)
	return db.Where("(topic ILIKE ? OR name ILIKE ?)", p, p)
}

// FilterBy is an equality filter on a column.
type FilterBy struct {
	Field string
	Value any
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(s.Field+" = ?", s.Value)
}

// Range selects the inclusive zero-based row range [From, To].
type Range struct {
	From int
	To   int
}

func (s Range) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(s.From).Limit(s.To - s.From + 1)
}

// Limit caps the number of rows.
type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.N)
}

// OrderBy applies ordering.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(s.Field + " " + direction)
}
