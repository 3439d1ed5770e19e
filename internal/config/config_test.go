package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Batch.MaxURLs)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 15, cfg.Fetch.FallbackTimeoutSecs)
	assert.Equal(t, 1000, cfg.Fetch.MinDelayMs)
	assert.Equal(t, 3000, cfg.Fetch.MaxDelayMs)
	assert.Equal(t, 200, cfg.Fetch.BlockedMinDelayMs)
	assert.Equal(t, 500, cfg.Fetch.BlockedMaxDelayMs)
	assert.Equal(t, 256, cfg.Fetch.CacheSize)
	assert.Equal(t, int64(5*1024*1024), cfg.Fetch.MaxBodyBytes)
	assert.InDelta(t, 1.0, cfg.Fetch.RatePerSecond, 0.001)
	assert.False(t, cfg.LinkedIn.HasCredentials())
	assert.NoError(t, cfg.Validate("cli"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
fetch:
  min_delay_ms: 0
  max_delay_ms: 0
  cache_size: 16
batch:
  concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0, cfg.Fetch.MaxDelayMs)
	assert.Equal(t, 16, cfg.Fetch.CacheSize)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("BIZINTEL_LOG_LEVEL", "warn")
	t.Setenv("BIZINTEL_FETCH_RETRY_ATTEMPTS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Fetch.RetryAttempts)
}

func TestLoadLinkedInCredentials(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LINKEDIN_EMAIL", "ops@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", cfg.LinkedIn.Email)
	assert.True(t, cfg.LinkedIn.HasCredentials())
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BIZINTEL_SERVER_PORT=7070\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("BIZINTEL_SERVER_PORT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("fetch: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	return &Config{
		Fetch: FetchConfig{
			TimeoutSecs:         10,
			FallbackTimeoutSecs: 15,
			MinDelayMs:          1000,
			MaxDelayMs:          3000,
			BlockedMinDelayMs:   200,
			BlockedMaxDelayMs:   500,
			RetryAttempts:       2,
			CacheSize:           256,
			MaxBodyBytes:        1 << 20,
			RatePerSecond:       1,
		},
		Batch:  BatchConfig{MaxURLs: 20, Concurrency: 1},
		Server: ServerConfig{Port: 5000},
	}
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("cli"))
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateLimits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"delay range inverted", func(c *Config) { c.Fetch.MaxDelayMs = 10 }, "delay range"},
		{"blocked delay negative", func(c *Config) { c.Fetch.BlockedMinDelayMs = -1 }, "blocked delay range"},
		{"no attempts", func(c *Config) { c.Fetch.RetryAttempts = 0 }, "retry_attempts"},
		{"empty cache", func(c *Config) { c.Fetch.CacheSize = 0 }, "cache_size"},
		{"zero rate", func(c *Config) { c.Fetch.RatePerSecond = 0 }, "rate_per_second"},
		{"batch too large", func(c *Config) { c.Batch.MaxURLs = 21 }, "max_urls"},
		{"no concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("cli")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
