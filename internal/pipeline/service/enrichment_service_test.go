package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAIRepo struct {
	mu        sync.Mutex
	enrichFn  func(item *entity.NewsItem) (*dto.EnrichmentResult, error)
	summarize func(assetClass string, items []entity.NewsItem) (string, error)
	calls     []string
}

func (f *fakeAIRepo) EnrichNews(ctx context.Context, item *entity.NewsItem) (*dto.EnrichmentResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, item.Fingerprint)
	f.mu.Unlock()
	return f.enrichFn(item)
}

func (f *fakeAIRepo) SummarizeAssetClass(ctx context.Context, assetClass string, items []entity.NewsItem) (string, error) {
	return f.summarize(assetClass, items)
}

func pendingItems(n int) []entity.NewsItem {
	items := make([]entity.NewsItem, 0, n)
	for i := 0; i < n; i++ {
		title := "title-" + string(rune('a'+i))
		items = append(items, entity.NewsItem{
			Fingerprint: entity.Fingerprint(title, "content"),
			Title:       title,
			Content:     "content",
		})
	}
	return items
}

func TestEnrichmentRunOnce_EnrichesAllPending(t *testing.T) {
	repo := &fakeNewsRepo{pending: pendingItems(5)}
	ai := &fakeAIRepo{
		enrichFn: func(item *entity.NewsItem) (*dto.EnrichmentResult, error) {
			return &dto.EnrichmentResult{
				Fingerprint: item.Fingerprint,
				AssetClass:  entity.AssetClassEquities,
			}, nil
		},
	}

	svc := NewEnrichmentService(repo, ai, newTestLogger(t), 2, 2, time.Minute)

	enriched, failed, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, enriched)
	assert.Zero(t, failed)
	assert.Len(t, repo.saved, 5)
	assert.Len(t, ai.calls, 5)
	assert.False(t, repo.savedAt.IsZero())
}

func TestEnrichmentRunOnce_FailedItemStaysPending(t *testing.T) {
	items := pendingItems(3)
	repo := &fakeNewsRepo{pending: items}
	ai := &fakeAIRepo{
		enrichFn: func(item *entity.NewsItem) (*dto.EnrichmentResult, error) {
			if item.Fingerprint == items[1].Fingerprint {
				return nil, errors.New("model returned garbage")
			}
			return &dto.EnrichmentResult{Fingerprint: item.Fingerprint}, nil
		},
	}

	svc := NewEnrichmentService(repo, ai, newTestLogger(t), 10, 2, time.Minute)

	enriched, failed, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	// The failed item is dropped from the batch commit, not the cycle.
	assert.Equal(t, 2, enriched)
	assert.Equal(t, 1, failed)
	for _, res := range repo.saved {
		assert.NotEqual(t, items[1].Fingerprint, res.Fingerprint)
	}
}

func TestEnrichmentRunOnce_NoPendingIsNoop(t *testing.T) {
	repo := &fakeNewsRepo{}
	svc := NewEnrichmentService(repo, &fakeAIRepo{}, newTestLogger(t), 10, 2, time.Minute)

	enriched, failed, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, enriched)
	assert.Zero(t, failed)
}

func TestEnrichmentRunOnce_CommitFailureAborts(t *testing.T) {
	repo := &fakeNewsRepo{pending: pendingItems(4), saveErr: errors.New("db down")}
	ai := &fakeAIRepo{
		enrichFn: func(item *entity.NewsItem) (*dto.EnrichmentResult, error) {
			return &dto.EnrichmentResult{Fingerprint: item.Fingerprint}, nil
		},
	}

	svc := NewEnrichmentService(repo, ai, newTestLogger(t), 2, 2, time.Minute)

	_, _, err := svc.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, repo.saved)
}
