package config

import (
	"fmt"
	"time"

	"golang-news-analyzer/pkg/config"
)

// Feed holds configuration for the upstream news feed.
type Feed struct {
	Provider     string        `mapstructure:"provider"` // "api" or "rss"
	BaseURL      string        `mapstructure:"base_url"`
	RSSURLs      []string      `mapstructure:"rss_urls"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Enrichment holds configuration for the enrichment worker pool.
type Enrichment struct {
	BatchSize    int           `mapstructure:"batch_size"`
	Concurrency  int           `mapstructure:"concurrency"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Summary holds configuration for the aggregation scheduler.
type Summary struct {
	TriggerMode       string        `mapstructure:"trigger_mode"` // "fixed" or "interval"
	FixedTime         string        `mapstructure:"fixed_time"`   // HH:MM, fixed mode only
	Interval          time.Duration `mapstructure:"interval"`     // interval mode only
	WindowHours       int           `mapstructure:"window_hours"`
	CustomWindowStart string        `mapstructure:"custom_window_start"` // optional, "2006-01-02 15:04:05"
	CustomWindowEnd   string        `mapstructure:"custom_window_end"`
}

// OpenAI holds the configuration for an OpenAI-protocol provider
// (OpenAI, DeepSeek, or any compatible endpoint).
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider       string        `mapstructure:"provider"` // "openai" or "gemini"
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Telegram holds configuration for the optional digest notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the pipeline service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	Feed       Feed            `mapstructure:"feed"`
	Enrichment Enrichment      `mapstructure:"enrichment"`
	Summary    Summary         `mapstructure:"summary"`
	AI         AI              `mapstructure:"ai"`
	OpenAI     OpenAI          `mapstructure:"openai"`
	Gemini     Gemini          `mapstructure:"gemini"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the pipeline configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations that would fail at first use. Missing model
// credentials are fatal at process start.
func (c *Config) validate() error {
	switch c.AI.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required when ai.provider is %q", c.AI.Provider)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required when ai.provider is %q", c.AI.Provider)
		}
	default:
		return fmt.Errorf("invalid ai.provider %q", c.AI.Provider)
	}

	switch c.Summary.TriggerMode {
	case "fixed":
		if _, err := time.Parse("15:04", c.Summary.FixedTime); err != nil {
			return fmt.Errorf("summary.fixed_time must be HH:MM: %w", err)
		}
	case "interval":
		if c.Summary.Interval <= 0 {
			return fmt.Errorf("summary.interval must be positive in interval mode")
		}
	default:
		return fmt.Errorf("invalid summary.trigger_mode %q", c.Summary.TriggerMode)
	}

	return nil
}
