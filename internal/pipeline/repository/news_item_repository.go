package repository

import (
	"context"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsItemRepository defines the interface for interacting with news item data.
type NewsItemRepository interface {
	// FilterNewFingerprints returns the subset of the given fingerprints that
	// are not yet stored.
	FilterNewFingerprints(ctx context.Context, fingerprints []string) ([]string, error)
	// CreateBatch appends new items in one batch write. Conflicting
	// fingerprints are ignored; the unique constraint is the reactive defense
	// behind the pre-filter.
	CreateBatch(ctx context.Context, items []entity.NewsItem) error
	// FindPending returns every item without an enrichment timestamp, oldest
	// first. The predicate itself is the enrichment cursor: crash-resumable,
	// no checkpoint row. It assumes a single enriching writer.
	FindPending(ctx context.Context) ([]entity.NewsItem, error)
	// SaveEnrichments commits a batch of enrichment results in one
	// transaction, keyed by fingerprint, stamping enriched_at.
	SaveEnrichments(ctx context.Context, results []dto.EnrichmentResult, enrichedAt time.Time) error
	// FindByAssetClassInWindow returns enriched items of one asset class whose
	// ingestion time falls within [start, end].
	FindByAssetClassInWindow(ctx context.Context, assetClass string, start, end time.Time) ([]entity.NewsItem, error)
}

// NewNewsItemRepository creates a new instance of NewsItemRepository.
func NewNewsItemRepository(db *gorm.DB) NewsItemRepository {
	return &newsItemRepository{
		db: db,
	}
}

type newsItemRepository struct {
	db *gorm.DB
}

func (r *newsItemRepository) FilterNewFingerprints(ctx context.Context, fingerprints []string) ([]string, error) {
	if len(fingerprints) == 0 {
		return nil, nil
	}

	var existing []string
	err := r.db.WithContext(ctx).
		Model(&entity.NewsItem{}).
		Where("fingerprint IN ?", fingerprints).
		Pluck("fingerprint", &existing).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, fp := range existing {
		seen[fp] = struct{}{}
	}

	fresh := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		if _, ok := seen[fp]; !ok {
			fresh = append(fresh, fp)
		}
	}
	return fresh, nil
}

func (r *newsItemRepository) CreateBatch(ctx context.Context, items []entity.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(&items).Error
}

func (r *newsItemRepository) FindPending(ctx context.Context) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).
		Where("enriched_at IS NULL").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *newsItemRepository) SaveEnrichments(ctx context.Context, results []dto.EnrichmentResult, enrichedAt time.Time) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range results {
			raw, err := res.RawJSON()
			if err != nil {
				return err
			}
			updates := map[string]interface{}{
				"source":          res.Source,
				"region":          res.Region,
				"subject":         res.Subject,
				"asset_class":     res.AssetClass,
				"sector":          res.Sector,
				"sentiment_score": res.SentimentScore,
				"impact_weight":   res.ImpactWeight,
				"trend_signal":    res.TrendSignal,
				"event_type":      res.EventType,
				"driver_factor":   res.DriverFactor,
				"key_metrics":     res.KeyMetrics,
				"raw_enrichment":  datatypes.JSON(raw),
				"enriched_at":     enrichedAt,
			}
			if err := tx.Model(&entity.NewsItem{}).
				Where("fingerprint = ?", res.Fingerprint).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *newsItemRepository) FindByAssetClassInWindow(ctx context.Context, assetClass string, start, end time.Time) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).
		Where("asset_class = ? AND created_at >= ? AND created_at <= ?", assetClass, start, end).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
