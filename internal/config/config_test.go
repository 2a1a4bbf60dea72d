package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, 3, cfg.HTTPMaxRetries)
	assert.Equal(t, time.Second, cfg.MinRequestInterval())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com/api")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "30")
	t.Setenv("MIN_REQUEST_INTERVAL_MS", "250")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.MinRequestInterval())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmptyBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")

	_, err := Load()
	assert.Error(t, err)
}
