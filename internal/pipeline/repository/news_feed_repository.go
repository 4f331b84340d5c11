package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-news-analyzer/internal/pipeline/config"
	"golang-news-analyzer/internal/pipeline/dto"
	"golang-news-analyzer/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// NewAPINewsFeedRepository creates a feed repository over a JSON snapshot API.
func NewAPINewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	timeout := cfg.Feed.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &apiNewsFeedRepository{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.Feed.BaseURL,
		logger:  log,
	}
}

type apiNewsFeedRepository struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

func (r *apiNewsFeedRepository) FetchSnapshot(ctx context.Context) ([]dto.RawNewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from news feed: %d - %s", resp.StatusCode, string(body))
	}

	var items []dto.RawNewsItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	return items, nil
}

// NewRSSNewsFeedRepository creates a feed repository over one or more RSS
// feeds. Item descriptions arrive as HTML; they are reduced to plain text so
// fingerprints stay stable across markup-only changes.
func NewRSSNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	timeout := cfg.Feed.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &rssNewsFeedRepository{
		parser: parser,
		urls:   cfg.Feed.RSSURLs,
		logger: log,
	}
}

type rssNewsFeedRepository struct {
	parser *gofeed.Parser
	urls   []string
	logger *logger.Logger
}

func (r *rssNewsFeedRepository) FetchSnapshot(ctx context.Context) ([]dto.RawNewsItem, error) {
	var items []dto.RawNewsItem
	var lastErr error

	for _, url := range r.urls {
		feed, err := r.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			// One broken feed must not hide the others.
			r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("url", url))
			lastErr = err
			continue
		}

		for _, item := range feed.Items {
			raw := dto.RawNewsItem{
				Title:   strings.TrimSpace(item.Title),
				Content: stripHTML(item.Description),
			}
			if item.PublishedParsed != nil {
				raw.PublishDate = item.PublishedParsed.Format("2006-01-02")
				raw.PublishTime = item.PublishedParsed.Format("15:04:05")
			}
			items = append(items, raw)
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all RSS feeds failed: %w", lastErr)
	}
	return items, nil
}

func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
