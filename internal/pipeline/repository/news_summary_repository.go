package repository

import (
	"context"

	"golang-news-analyzer/internal/entity"

	"gorm.io/gorm"
)

// NewsSummaryRepository defines the interface for the append-only summary log.
type NewsSummaryRepository interface {
	Create(ctx context.Context, summary *entity.NewsSummary) error
	GetLatest(ctx context.Context, assetClass string) (*entity.NewsSummary, error)
}

// NewNewsSummaryRepository creates a new instance of NewsSummaryRepository.
func NewNewsSummaryRepository(db *gorm.DB) NewsSummaryRepository {
	return &newsSummaryRepository{
		db: db,
	}
}

type newsSummaryRepository struct {
	db *gorm.DB
}

// Create appends one summary record. Summaries are never updated or deleted.
func (r *newsSummaryRepository) Create(ctx context.Context, summary *entity.NewsSummary) error {
	return r.db.WithContext(ctx).Create(summary).Error
}

// GetLatest returns the most recent summary for an asset class, or nil when
// none has been generated yet.
func (r *newsSummaryRepository) GetLatest(ctx context.Context, assetClass string) (*entity.NewsSummary, error) {
	var summary entity.NewsSummary
	result := r.db.WithContext(ctx).
		Where("asset_class = ?", assetClass).
		Order("created_at desc").
		First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary, nil
}
