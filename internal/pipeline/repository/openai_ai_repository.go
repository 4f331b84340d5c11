package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-news-analyzer/internal/entity"
	"golang-news-analyzer/internal/pipeline/config"
	"golang-news-analyzer/internal/pipeline/dto"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/ratelimit"
	"golang-news-analyzer/pkg/utils"

	"golang.org/x/time/rate"
)

type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository over any OpenAI-protocol
// endpoint (OpenAI, DeepSeek, and compatible providers).
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute)

	timeout := cfg.AI.RequestTimeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}

	return &openaiAIRepository{
		client: &http.Client{
			Timeout: timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

func (r *openaiAIRepository) EnrichNews(ctx context.Context, item *entity.NewsItem) (*dto.EnrichmentResult, error) {
	raw, err := r.sendRequest(ctx, EnrichNewsSystemPrompt, BuildEnrichNewsInput(item))
	if err != nil {
		return nil, err
	}

	var result dto.EnrichmentResult
	if !utils.ExtractJSONObject(raw, &result) {
		r.logger.Error("No parseable JSON object in enrichment response",
			logger.StringField("fingerprint", item.Fingerprint),
			logger.StringField("response", raw))
		return nil, fmt.Errorf("no parseable JSON object in enrichment response")
	}

	// Models occasionally drop or mangle the echoed fingerprint; the row's own
	// identity always wins.
	result.Fingerprint = item.Fingerprint
	result.Normalize()
	return &result, nil
}

func (r *openaiAIRepository) SummarizeAssetClass(ctx context.Context, assetClass string, items []entity.NewsItem) (string, error) {
	raw, err := r.sendRequest(ctx, SummarySystemPrompt, BuildAssetSummaryPrompt(assetClass, items))
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (r *openaiAIRepository) sendRequest(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OpenAPIReq{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.OpenAI.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.OpenAI.APIKey))

	r.logger.Debug("Sending request to OpenAI-protocol API",
		logger.StringField("url", r.cfg.OpenAI.BaseURL),
		logger.StringField("model", r.cfg.OpenAI.Model))

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-OK response from model API: %d - %s", resp.StatusCode, string(body))
	}

	var openaiResp dto.OpenAPIRes
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(openaiResp.Choices) == 0 || len(openaiResp.Choices[0].Message.Content) == 0 {
		return "", fmt.Errorf("no content found in model response")
	}

	if openaiResp.Usage.TotalTokens > r.cfg.OpenAI.MaxTokenPerMinute/2 {
		r.logger.Warn("Token usage exceeded 50% of the per-minute limit",
			logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	if err := r.tokenLimiter.Wait(ctx, openaiResp.Usage.TotalTokens); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}

	return openaiResp.Choices[0].Message.Content, nil
}
