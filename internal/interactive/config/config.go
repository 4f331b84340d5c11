package config

import (
	"fmt"
	"time"

	"golang-news-analyzer/pkg/config"
)

// OpenAI holds the configuration for the OpenAI-protocol model endpoint used
// by the query agents.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Query holds tunables for the query agent pair.
type Query struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AnswerCacheTTL time.Duration `mapstructure:"answer_cache_ttl"`
	MaxResultRows  int           `mapstructure:"max_result_rows"`
}

// Config holds the full configuration for the interactive service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	OpenAI   OpenAI          `mapstructure:"openai"`
	Query    Query           `mapstructure:"query"`
}

// Load loads the interactive service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai.api_key is required")
	}
	return &cfg, nil
}
