package service

import (
	"context"
	"fmt"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/config"
	"golang-news-analyzer/internal/pipeline/repository"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/telegram"
)

// SummaryService runs scheduled aggregation passes, producing one narrative
// summary per asset class per window.
type SummaryService interface {
	Run(ctx context.Context)
	RunPass(ctx context.Context) []entity.NewsSummary
}

// NewSummaryService creates a new SummaryService. The notifier is optional;
// pass nil to disable the digest notification.
func NewSummaryService(
	cfg config.Summary,
	newsRepo repository.NewsItemRepository,
	summaryRepo repository.NewsSummaryRepository,
	aiRepo repository.AIRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) (SummaryService, error) {
	now := time.Now()
	trigger, err := NewTrigger(TriggerMode(cfg.TriggerMode), cfg.FixedTime, cfg.Interval, now)
	if err != nil {
		return nil, err
	}

	s := &summaryService{
		cfg:         cfg,
		newsRepo:    newsRepo,
		summaryRepo: summaryRepo,
		aiRepo:      aiRepo,
		notifier:    notifier,
		logger:      log,
		trigger:     trigger,
		now:         time.Now,
	}

	if cfg.CustomWindowStart != "" || cfg.CustomWindowEnd != "" {
		start, err := time.Parse("2006-01-02 15:04:05", cfg.CustomWindowStart)
		if err != nil {
			return nil, fmt.Errorf("invalid summary.custom_window_start: %w", err)
		}
		end, err := time.Parse("2006-01-02 15:04:05", cfg.CustomWindowEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid summary.custom_window_end: %w", err)
		}
		s.customWindow = &[2]time.Time{start, end}
	}

	return s, nil
}

type summaryService struct {
	cfg          config.Summary
	newsRepo     repository.NewsItemRepository
	summaryRepo  repository.NewsSummaryRepository
	aiRepo       repository.AIRepository
	notifier     telegram.Notifier
	logger       *logger.Logger
	trigger      *Trigger
	customWindow *[2]time.Time
	now          func() time.Time
}

// Run checks the trigger once a minute until the context is canceled. In
// interval mode the trigger is due immediately, so the first pass runs on the
// first tick after startup.
func (s *summaryService) Run(ctx context.Context) {
	s.logger.Info("Summary scheduler started",
		logger.StringField("mode", string(s.trigger.Mode())),
		logger.Field("next_run", s.trigger.NextRun()))

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	if s.trigger.ShouldFire(s.now()) {
		s.RunPass(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Summary scheduler stopping")
			return
		case <-ticker.C:
			if s.trigger.ShouldFire(s.now()) {
				s.RunPass(ctx)
				s.logger.Info("Next aggregation run scheduled", logger.Field("next_run", s.trigger.NextRun()))
			}
		}
	}
}

// RunPass executes one aggregation pass over every asset class. Classes with
// no items in the window are skipped; a failure in one class never aborts the
// others. Returns the summaries that were written.
func (s *summaryService) RunPass(ctx context.Context) []entity.NewsSummary {
	windowStart, windowEnd := s.window()
	s.logger.Info("Starting aggregation pass",
		logger.Field("window_start", windowStart),
		logger.Field("window_end", windowEnd))

	var written []entity.NewsSummary

	for _, assetClass := range entity.AssetClasses {
		// A custom window is a backfill; rerunning the process must not
		// duplicate summaries for the same window.
		if s.customWindow != nil {
			last, err := s.summaryRepo.GetLatest(ctx, assetClass)
			if err == nil && last != nil && last.WindowStart.Equal(windowStart) && last.WindowEnd.Equal(windowEnd) {
				s.logger.Info("Summary for window already exists, skipping",
					logger.StringField("asset_class", assetClass))
				continue
			}
		}

		items, err := s.newsRepo.FindByAssetClassInWindow(ctx, assetClass, windowStart, windowEnd)
		if err != nil {
			s.logger.Error("Failed to load items for asset class",
				logger.ErrorField(err), logger.StringField("asset_class", assetClass))
			continue
		}
		if len(items) == 0 {
			s.logger.Debug("No items in window, skipping asset class",
				logger.StringField("asset_class", assetClass))
			continue
		}

		text, err := s.aiRepo.SummarizeAssetClass(ctx, assetClass, items)
		if err != nil {
			s.logger.Error("Failed to summarize asset class",
				logger.ErrorField(err), logger.StringField("asset_class", assetClass))
			continue
		}

		summary := entity.NewsSummary{
			AssetClass:  assetClass,
			SummaryText: text,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
			NewsCount:   len(items),
			CreatedAt:   s.now(),
		}
		if err := s.summaryRepo.Create(ctx, &summary); err != nil {
			s.logger.Error("Failed to save summary",
				logger.ErrorField(err), logger.StringField("asset_class", assetClass))
			continue
		}

		s.logger.Info("Summary generated",
			logger.StringField("asset_class", assetClass),
			logger.IntField("news_count", len(items)))
		written = append(written, summary)
	}

	s.notify(written)

	return written
}

func (s *summaryService) window() (time.Time, time.Time) {
	if s.customWindow != nil {
		return s.customWindow[0], s.customWindow[1]
	}
	end := s.now()
	hours := s.cfg.WindowHours
	if hours <= 0 {
		hours = 24
	}
	return end.Add(-time.Duration(hours) * time.Hour), end
}

func (s *summaryService) notify(written []entity.NewsSummary) {
	if s.notifier == nil || len(written) == 0 {
		return
	}
	for _, message := range telegram.FormatAssetSummariesForTelegram(written) {
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.Error("Failed to send Telegram digest", logger.ErrorField(err))
		}
		time.Sleep(100 * time.Millisecond)
	}
}
