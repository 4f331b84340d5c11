package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-news-analyzer/internal/interactive/config"
	"golang-news-analyzer/pkg/logger"

	"golang.org/x/time/rate"
)

// LLMRepository is the generic chat call both query agents are built on.
type LLMRepository interface {
	ChatCompletion(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// NewOpenAILLMRepository creates an LLMRepository over an OpenAI-protocol
// endpoint.
func NewOpenAILLMRepository(cfg *config.Config, log *logger.Logger) LLMRepository {
	var limiter *rate.Limiter
	if cfg.OpenAI.MaxRequestPerMinute > 0 {
		secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
		limiter = rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	}

	timeout := cfg.Query.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &openaiLLMRepository{
		client:         &http.Client{Timeout: timeout},
		cfg:            cfg,
		logger:         log,
		requestLimiter: limiter,
	}
}

type openaiLLMRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r *openaiLLMRepository) ChatCompletion(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if r.requestLimiter != nil {
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("failed to wait for request limit: %w", err)
		}
	}

	payload := chatRequest{
		Model: r.cfg.OpenAI.Model,
		Messages: []chatMessage{
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

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-OK response from model API: %d - %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content found in model response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
