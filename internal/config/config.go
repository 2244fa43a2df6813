package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all settings for the service, loaded from environment
// variables. A .env file is loaded by main before parsing.
type Config struct {
	// Shared secret checked against the api_key field/parameter on every
	// analysis endpoint.
	APIKey string `env:"API_KEY" envDefault:"crewinsight-mvp-2024"`

	// Summary provider credentials. When both are set OpenAI wins; when
	// neither is set the deterministic fallback renderer handles every
	// summary.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Data source credentials. An empty key switches the collector to its
	// placeholder data path.
	AlphaVantageAPIKey string `env:"ALPHA_VANTAGE_API_KEY"`
	NewsAPIKey         string `env:"NEWS_API_KEY"`
	FinnhubAPIKey      string `env:"FINNHUB_API_KEY"`

	Host  string `env:"HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"PORT" envDefault:"8000"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	// MaxConcurrentRequests is declared for operators but not enforced as
	// backpressure; every accepted request gets its own pipeline goroutine.
	MaxConcurrentRequests int           `env:"MAX_CONCURRENT_REQUESTS" envDefault:"10"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	StoreMaxResults int `env:"STORE_MAX_RESULTS" envDefault:"1000"`
	StoreTTLHours   int `env:"STORE_TTL_HOURS" envDefault:"24"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from env: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) sanitize() {
	if c.StoreMaxResults < 1 {
		c.StoreMaxResults = 1000
	}
	if c.StoreTTLHours < 1 {
		c.StoreTTLHours = 24
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
