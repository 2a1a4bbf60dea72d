package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/vin2grow/storefront-go/pkg/config"
)

// Config holds all configuration for the storefront client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`

	// API endpoint
	APIBaseURL string `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8081"`

	// HTTP behavior
	HTTPTimeout          int `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPMaxRetries       int `env:"HTTP_MAX_RETRIES" envDefault:"3"`
	MinRequestIntervalMs int `env:"MIN_REQUEST_INTERVAL_MS" envDefault:"1000"`

	// Session file location; empty means the platform default.
	SessionPath string `env:"STOREFRONT_SESSION_PATH" envDefault:""`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if c.HTTPTimeout < 1 {
		return fmt.Errorf("HTTP timeout must be at least 1 second, got %d", c.HTTPTimeout)
	}
	if c.MinRequestIntervalMs < 0 {
		return fmt.Errorf("min request interval must not be negative, got %d", c.MinRequestIntervalMs)
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// MinRequestInterval returns the request throttle interval as a duration.
func (c *Config) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMs) * time.Millisecond
}
