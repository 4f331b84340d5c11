package service

import (
	"context"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/dto"
	"golang-news-analyzer/internal/pipeline/repository"
	"golang-news-analyzer/pkg/common"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/redis"
	"golang-news-analyzer/pkg/utils"

	"gorm.io/datatypes"
)

// IngestionService pulls feed snapshots, fingerprints them and appends the
// rows not seen before.
type IngestionService interface {
	Run(ctx context.Context)
	RunOnce(ctx context.Context) (int, error)
}

// NewIngestionService creates a new IngestionService. The Redis client is an
// optional pre-filter in front of the database fingerprint check; pass nil to
// rely on the database alone.
func NewIngestionService(
	feedRepo repository.NewsFeedRepository,
	newsRepo repository.NewsItemRepository,
	redisClient *redis.Client,
	log *logger.Logger,
	pollInterval time.Duration,
) IngestionService {
	return &ingestionService{
		feedRepo:     feedRepo,
		newsRepo:     newsRepo,
		redisClient:  redisClient,
		logger:       log,
		pollInterval: pollInterval,
	}
}

type ingestionService struct {
	feedRepo     repository.NewsFeedRepository
	newsRepo     repository.NewsItemRepository
	redisClient  *redis.Client
	logger       *logger.Logger
	pollInterval time.Duration
}

// Run executes one cycle immediately, then polls at the fixed interval until
// the context is canceled. A failed cycle never terminates the loop; the next
// tick retries unconditionally.
func (s *ingestionService) Run(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("Ingestion cycle failed", logger.ErrorField(err))
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Ingestion service stopping")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("Ingestion cycle failed", logger.ErrorField(err))
			}
		}
	}
}

// RunOnce fetches the current feed snapshot and appends the unseen rows in one
// batch write. Returns the number of accepted rows.
func (s *ingestionService) RunOnce(ctx context.Context) (int, error) {
	raw, err := s.feedRepo.FetchSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		s.logger.Info("Feed snapshot is empty")
		return 0, nil
	}

	// Deduplicate within the snapshot first; feeds repeat stories and the
	// batch write must offer each fingerprint once.
	candidates := make([]entity.NewsItem, 0, len(raw))
	inBatch := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		item := newNewsItem(r)
		if _, ok := inBatch[item.Fingerprint]; ok {
			continue
		}
		inBatch[item.Fingerprint] = struct{}{}
		candidates = append(candidates, item)
	}

	candidates = s.filterCached(ctx, candidates)
	if len(candidates) == 0 {
		s.logger.Info("No new items after fingerprint cache filter", logger.IntField("snapshot_size", len(raw)))
		return 0, nil
	}

	fingerprints := make([]string, 0, len(candidates))
	for _, item := range candidates {
		fingerprints = append(fingerprints, item.Fingerprint)
	}

	fresh, err := s.newsRepo.FilterNewFingerprints(ctx, fingerprints)
	if err != nil {
		return 0, err
	}
	freshSet := make(map[string]struct{}, len(fresh))
	for _, fp := range fresh {
		freshSet[fp] = struct{}{}
	}

	accepted := make([]entity.NewsItem, 0, len(fresh))
	for _, item := range candidates {
		if _, ok := freshSet[item.Fingerprint]; ok {
			accepted = append(accepted, item)
		}
	}

	if err := s.newsRepo.CreateBatch(ctx, accepted); err != nil {
		return 0, err
	}

	s.markCached(ctx, fingerprints)

	s.logger.Info("Ingestion cycle completed",
		logger.IntField("snapshot_size", len(raw)),
		logger.IntField("accepted", len(accepted)))
	return len(accepted), nil
}

// filterCached drops candidates whose fingerprint is already in the Redis
// cache. Cache failures degrade to the database check alone.
func (s *ingestionService) filterCached(ctx context.Context, candidates []entity.NewsItem) []entity.NewsItem {
	if s.redisClient == nil {
		return candidates
	}

	keys := make([]string, 0, len(candidates))
	for _, item := range candidates {
		keys = append(keys, common.RedisKeyFingerprint+item.Fingerprint)
	}

	cached, err := s.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		s.logger.Warn("Fingerprint cache lookup failed, falling back to database", logger.ErrorField(err))
		return candidates
	}

	fresh := make([]entity.NewsItem, 0, len(candidates))
	for i, item := range candidates {
		if cached[i] == nil {
			fresh = append(fresh, item)
		}
	}
	return fresh
}

func (s *ingestionService) markCached(ctx context.Context, fingerprints []string) {
	if s.redisClient == nil {
		return
	}

	pipe := s.redisClient.Pipeline()
	for _, fp := range fingerprints {
		pipe.Set(ctx, common.RedisKeyFingerprint+fp, "1", common.RedisFingerprintTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("Failed to update fingerprint cache", logger.ErrorField(err))
	}
}

// newNewsItem converts a raw feed row into a storable item. The fingerprint
// covers title and content only, so re-fetches of the same story collide.
func newNewsItem(raw dto.RawNewsItem) entity.NewsItem {
	item := entity.NewsItem{
		Fingerprint: entity.Fingerprint(raw.Title, raw.Content),
		Title:       raw.Title,
		Content:     raw.Content,
	}

	if t := utils.ParseDate(raw.PublishDate); t != nil {
		d := datatypes.Date(*t)
		item.PublishDate = &d
	}
	if t := utils.ParseClock(raw.PublishTime); t != nil {
		clock := datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
		item.PublishTime = &clock
	}

	return item
}
