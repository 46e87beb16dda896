package repository

import (
	"context"

	"companion-app/frontend/internal/models"

	"gorm.io/gorm"
)

// CompanionRepository is the store collaborator for the companions table.
type CompanionRepository interface {
	Create(ctx context.Context, companion *models.Companion) error
	List(ctx context.Context, params models.ListCompanionsParams) ([]models.Companion, error)
	GetByID(ctx context.Context, id string) (*models.Companion, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Companion, error)
	CountByAuthor(ctx context.Context, author string) (int64, error)
}

type GormCompanionRepository struct {
	db *gorm.DB
}

func NewGormCompanionRepository(db *gorm.DB) *GormCompanionRepository {
	return &GormCompanionRepository{db: db}
}

func (r *GormCompanionRepository) Create(ctx context.Context, companion *models.Companion) error {
	return translate("create companion", r.db.WithContext(ctx).Create(companion).Error)
}

// CompanionListSpecs builds the filter, ordering and range for a catalog
// listing. params must already be normalized.
func CompanionListSpecs(params models.ListCompanionsParams) []Specification {
	var specs []Specification
	if params.Subject != "" {
		specs = append(specs, SubjectContains{Subject: params.Subject})
	}
	if params.Topic != "" {
		specs = append(specs, TopicOrNameContains{Topic: params.Topic})
	}
	from, to := params.Range()
	return append(specs,
		OrderBy{Field: "created_at"},
		OrderBy{Field: "id"},
		Range{From: from, To: to},
	)
}

func (r *GormCompanionRepository) List(ctx context.Context, params models.ListCompanionsParams) ([]models.Companion, error) {
	companions := []models.Companion{}
	query := applySpecifications(r.db.WithContext(ctx).Model(&models.Companion{}), CompanionListSpecs(params)...)
	if err := query.Find(&companions).Error; err != nil {
		return nil, translate("list companions", err)
	}
	return companions, nil
}

func (r *GormCompanionRepository) GetByID(ctx context.Context, id string) (*models.Companion, error) {
	var companion models.Companion
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&companion).Error
	if err != nil {
		return nil, translate("get companion", err)
	}
	return &companion, nil
}

func (r *GormCompanionRepository) ListByAuthor(ctx context.Context, author string) ([]models.Companion, error) {
	companions := []models.Companion{}
	query := applySpecifications(r.db.WithContext(ctx),
		FilterBy{Field: "author", Value: author},
		OrderBy{Field: "created_at"},
	)
	if err := query.Find(&companions).Error; err != nil {
		return nil, translate("list companions by author", err)
	}
	return companions, nil
}

// CountByAuthor issues a head-only exact count of the author's companions.
func (r *GormCompanionRepository) CountByAuthor(ctx context.Context, author string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Companion{}).
		Where("author = ?", author).
		Count(&count).Error
	if err != nil {
		return 0, translate("count companions", err)
	}
	return count, nil
}
