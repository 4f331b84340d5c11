package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummaryRepo struct {
	created []entity.NewsSummary
	err     error
}

func (f *fakeSummaryRepo) Create(ctx context.Context, summary *entity.NewsSummary) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *summary)
	return nil
}

func (f *fakeSummaryRepo) GetLatest(ctx context.Context, assetClass string) (*entity.NewsSummary, error) {
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].AssetClass == assetClass {
			return &f.created[i], nil
		}
	}
	return nil, nil
}

func intervalSummaryConfig() config.Summary {
	return config.Summary{
		TriggerMode: "interval",
		Interval:    time.Hour,
		WindowHours: 24,
	}
}

func TestSummaryRunPass_OneSummaryPerNonEmptyClass(t *testing.T) {
	newsRepo := &fakeNewsRepo{byClass: map[string][]entity.NewsItem{
		entity.AssetClassEquities: {
			{Title: "Nvidia beat", AssetClass: entity.AssetClassEquities},
			{Title: "Apple guidance", AssetClass: entity.AssetClassEquities},
			{Title: "Tesla recall", AssetClass: entity.AssetClassEquities},
		},
		entity.AssetClassCrypto: {
			{Title: "BTC ETF flows", AssetClass: entity.AssetClassCrypto},
		},
	}}
	summaryRepo := &fakeSummaryRepo{}
	ai := &fakeAIRepo{
		summarize: func(assetClass string, items []entity.NewsItem) (string, error) {
			return "summary for " + assetClass, nil
		},
	}

	svc, err := NewSummaryService(intervalSummaryConfig(), newsRepo, summaryRepo, ai, nil, newTestLogger(t))
	require.NoError(t, err)

	written := svc.RunPass(context.Background())

	// Empty classes are skipped, not written with zero counts.
	require.Len(t, written, 2)
	require.Len(t, summaryRepo.created, 2)

	byClass := map[string]entity.NewsSummary{}
	for _, s := range summaryRepo.created {
		byClass[s.AssetClass] = s
	}
	assert.Equal(t, 3, byClass[entity.AssetClassEquities].NewsCount)
	assert.Equal(t, 1, byClass[entity.AssetClassCrypto].NewsCount)
	assert.Equal(t, "summary for Crypto", byClass[entity.AssetClassCrypto].SummaryText)
	assert.Equal(t, byClass[entity.AssetClassEquities].WindowStart, byClass[entity.AssetClassCrypto].WindowStart)
}

func TestSummaryRunPass_ClassFailureDoesNotAbortOthers(t *testing.T) {
	newsRepo := &fakeNewsRepo{byClass: map[string][]entity.NewsItem{
		entity.AssetClassEquities: {{Title: "a"}},
		entity.AssetClassFX:      {{Title: "b"}},
	}}
	summaryRepo := &fakeSummaryRepo{}
	ai := &fakeAIRepo{
		summarize: func(assetClass string, items []entity.NewsItem) (string, error) {
			if assetClass == entity.AssetClassEquities {
				return "", errors.New("model timeout")
			}
			return "fx summary", nil
		},
	}

	svc, err := NewSummaryService(intervalSummaryConfig(), newsRepo, summaryRepo, ai, nil, newTestLogger(t))
	require.NoError(t, err)

	written := svc.RunPass(context.Background())
	require.Len(t, written, 1)
	assert.Equal(t, entity.AssetClassFX, written[0].AssetClass)
}

func TestSummaryService_CustomWindowOverridesRolling(t *testing.T) {
	cfg := intervalSummaryConfig()
	cfg.CustomWindowStart = "2025-08-01 00:00:00"
	cfg.CustomWindowEnd = "2025-08-02 00:00:00"

	newsRepo := &fakeNewsRepo{byClass: map[string][]entity.NewsItem{
		entity.AssetClassBonds: {{Title: "yields"}},
	}}
	summaryRepo := &fakeSummaryRepo{}
	ai := &fakeAIRepo{
		summarize: func(assetClass string, items []entity.NewsItem) (string, error) {
			return "bond summary", nil
		},
	}

	svc, err := NewSummaryService(cfg, newsRepo, summaryRepo, ai, nil, newTestLogger(t))
	require.NoError(t, err)

	written := svc.RunPass(context.Background())
	require.Len(t, written, 1)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), written[0].WindowStart)
	assert.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), written[0].WindowEnd)
}

func TestSummaryService_CustomWindowPassIsIdempotent(t *testing.T) {
	cfg := intervalSummaryConfig()
	cfg.CustomWindowStart = "2025-08-01 00:00:00"
	cfg.CustomWindowEnd = "2025-08-02 00:00:00"

	newsRepo := &fakeNewsRepo{byClass: map[string][]entity.NewsItem{
		entity.AssetClassBonds: {{Title: "yields"}},
	}}
	summaryRepo := &fakeSummaryRepo{}
	ai := &fakeAIRepo{
		summarize: func(assetClass string, items []entity.NewsItem) (string, error) {
			return "bond summary", nil
		},
	}

	svc, err := NewSummaryService(cfg, newsRepo, summaryRepo, ai, nil, newTestLogger(t))
	require.NoError(t, err)

	require.Len(t, svc.RunPass(context.Background()), 1)
	assert.Empty(t, svc.RunPass(context.Background()))
	assert.Len(t, summaryRepo.created, 1)
}

func TestSummaryService_RejectsMalformedCustomWindow(t *testing.T) {
	cfg := intervalSummaryConfig()
	cfg.CustomWindowStart = "yesterday"
	cfg.CustomWindowEnd = "2025-08-02 00:00:00"

	_, err := NewSummaryService(cfg, &fakeNewsRepo{}, &fakeSummaryRepo{}, &fakeAIRepo{}, nil, newTestLogger(t))
	assert.Error(t, err)
}
