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
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository implementation over the Google Gemini
// API. The genai client is used for token counting ahead of each request; the
// request itself goes through the REST generateContent endpoint.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	timeout := cfg.AI.RequestTimeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) EnrichNews(ctx context.Context, item *entity.NewsItem) (*dto.EnrichmentResult, error) {
	prompt := EnrichNewsSystemPrompt + "\n\n# Input\n" + BuildEnrichNewsInput(item)

	raw, err := r.executeGeminiRequest(ctx, prompt)
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

	result.Fingerprint = item.Fingerprint
	result.Normalize()
	return &result, nil
}

func (r *geminiAIRepository) SummarizeAssetClass(ctx context.Context, assetClass string, items []entity.NewsItem) (string, error) {
	return r.executeGeminiRequest(ctx, BuildAssetSummaryPrompt(assetClass, items))
}

func (r *geminiAIRepository) executeGeminiRequest(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content found in Gemini response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
