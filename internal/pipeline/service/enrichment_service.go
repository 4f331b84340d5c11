package service

import (
	"context"
	"sync"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/dto"
	"golang-news-analyzer/internal/pipeline/repository"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/utils"
)

// EnrichmentService drains the pending cursor through the model, committing
// each batch's successful results in one transaction.
type EnrichmentService interface {
	Run(ctx context.Context)
	RunOnce(ctx context.Context) (enriched int, failed int, err error)
}

// NewEnrichmentService creates a new EnrichmentService.
func NewEnrichmentService(
	newsRepo repository.NewsItemRepository,
	aiRepo repository.AIRepository,
	log *logger.Logger,
	batchSize int,
	concurrency int,
	pollInterval time.Duration,
) EnrichmentService {
	if batchSize <= 0 {
		batchSize = 10
	}
	if concurrency <= 0 {
		concurrency = 2
	}
	return &enrichmentService{
		newsRepo:     newsRepo,
		aiRepo:       aiRepo,
		logger:       log,
		batchSize:    batchSize,
		concurrency:  concurrency,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

type enrichmentService struct {
	newsRepo     repository.NewsItemRepository
	aiRepo       repository.AIRepository
	logger       *logger.Logger
	batchSize    int
	concurrency  int
	pollInterval time.Duration
	now          func() time.Time
}

// Run polls for pending items at the fixed interval until the context is
// canceled. A failed cycle is logged and retried on the next tick.
func (s *enrichmentService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Enrichment service stopping")
			return
		case <-ticker.C:
			if _, _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("Enrichment cycle failed", logger.ErrorField(err))
			}
		}
	}
}

// RunOnce selects every pending item (enrichment timestamp null, oldest
// first) and works through it in fixed-size batches. Items whose model call
// or parse fails stay pending and are retried on a later cycle.
func (s *enrichmentService) RunOnce(ctx context.Context) (int, int, error) {
	pending, err := s.newsRepo.FindPending(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(pending) == 0 {
		s.logger.Debug("No pending items")
		return 0, 0, nil
	}

	s.logger.Info("Found pending items for enrichment", logger.IntField("count", len(pending)))

	var enriched, failed int
	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		results, batchFailed := s.enrichBatch(ctx, pending[start:end])
		failed += batchFailed

		// One transactional commit per batch; a crash before this point
		// leaves every item of the batch pending.
		if err := s.newsRepo.SaveEnrichments(ctx, results, s.now()); err != nil {
			return enriched, failed, err
		}
		enriched += len(results)
	}

	s.logger.Info("Enrichment cycle completed",
		logger.IntField("enriched", enriched),
		logger.IntField("failed", failed))
	return enriched, failed, nil
}

// enrichBatch fans one batch out over the bounded worker pool. Worker
// failures are isolated: a failed item is logged and dropped from the batch
// result, it never aborts its siblings.
func (s *enrichmentService) enrichBatch(ctx context.Context, items []entity.NewsItem) ([]dto.EnrichmentResult, int) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []dto.EnrichmentResult
		failed  int
	)

	sem := make(chan struct{}, s.concurrency)

	for i := range items {
		item := items[i]
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.aiRepo.EnrichNews(ctx, &item)
			if err != nil {
				s.logger.Error("Failed to enrich news item",
					logger.ErrorField(err),
					logger.StringField("fingerprint", item.Fingerprint))
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
		})
	}
	wg.Wait()

	return results, failed
}
