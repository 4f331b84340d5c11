package repository

import (
	"context"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/dto"
)

// AIRepository defines the model calls the pipeline depends on. The model is
// treated as an untrusted oracle: implementations perform the network call and
// tolerant parsing, callers decide what a failed result means.
type AIRepository interface {
	// EnrichNews derives the structured-field set for one news item.
	EnrichNews(ctx context.Context, item *entity.NewsItem) (*dto.EnrichmentResult, error)
	// SummarizeAssetClass produces one narrative summary over the given items.
	SummarizeAssetClass(ctx context.Context, assetClass string, items []entity.NewsItem) (string, error)
}

// NewsFeedRepository defines the upstream news source. Each call returns the
// feed's current full snapshot; there is no pagination contract.
type NewsFeedRepository interface {
	FetchSnapshot(ctx context.Context) ([]dto.RawNewsItem, error)
}
