package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxBatchURLs is the hard ceiling on URLs accepted by one batch call.
const MaxBatchURLs = 20

// Config holds the full application configuration.
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	LinkedIn LinkedInConfig `yaml:"linkedin" mapstructure:"linkedin"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	TimeoutSecs         int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	FallbackTimeoutSecs int     `yaml:"fallback_timeout_secs" mapstructure:"fallback_timeout_secs"`
	MinDelayMs          int     `yaml:"min_delay_ms" mapstructure:"min_delay_ms"`
	MaxDelayMs          int     `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	BlockedMinDelayMs   int     `yaml:"blocked_min_delay_ms" mapstructure:"blocked_min_delay_ms"`
	BlockedMaxDelayMs   int     `yaml:"blocked_max_delay_ms" mapstructure:"blocked_max_delay_ms"`
	RetryAttempts       int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs      int     `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
	CacheSize           int     `yaml:"cache_size" mapstructure:"cache_size"`
	MaxBodyBytes        int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	CacheMirrorURL      string  `yaml:"cache_mirror_url" mapstructure:"cache_mirror_url"`
	RatePerSecond       float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// LinkedInConfig holds optional LinkedIn credentials. Their presence only
// tags fetches as authenticated; no login is performed.
type LinkedInConfig struct {
	Email    string `yaml:"email" mapstructure:"email"`
	Password string `yaml:"password" mapstructure:"password"`
}

// HasCredentials reports whether both email and password are set.
func (c LinkedInConfig) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxURLs     int `yaml:"max_urls" mapstructure:"max_urls"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIZINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed credential names are accepted as well.
	_ = v.BindEnv("linkedin.email", "BIZINTEL_LINKEDIN_EMAIL", "LINKEDIN_EMAIL")
	_ = v.BindEnv("linkedin.password", "BIZINTEL_LINKEDIN_PASSWORD", "LINKEDIN_PASSWORD")

	// Defaults
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.fallback_timeout_secs", 15)
	v.SetDefault("fetch.min_delay_ms", 1000)
	v.SetDefault("fetch.max_delay_ms", 3000)
	v.SetDefault("fetch.blocked_min_delay_ms", 200)
	v.SetDefault("fetch.blocked_max_delay_ms", 500)
	v.SetDefault("fetch.retry_attempts", 2)
	v.SetDefault("fetch.retry_backoff_ms", 500)
	v.SetDefault("fetch.cache_size", 256)
	v.SetDefault("fetch.max_body_bytes", 5*1024*1024)
	v.SetDefault("fetch.cache_mirror_url", "https://webcache.googleusercontent.com/search?q=cache:")
	v.SetDefault("fetch.rate_per_second", 1.0)
	v.SetDefault("batch.max_urls", MaxBatchURLs)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("server.port", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are "cli"
// and "serve"; serve additionally needs a listen port.
func (c *Config) Validate(mode string) error {
	switch mode {
	case "cli":
	case "serve":
		if c.Server.Port <= 0 {
			return eris.New("config: server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	f := c.Fetch
	switch {
	case f.TimeoutSecs <= 0:
		return eris.New("config: fetch.timeout_secs must be positive")
	case f.FallbackTimeoutSecs <= 0:
		return eris.New("config: fetch.fallback_timeout_secs must be positive")
	case f.MinDelayMs < 0 || f.MaxDelayMs < f.MinDelayMs:
		return eris.Errorf("config: fetch delay range [%d, %d] is invalid", f.MinDelayMs, f.MaxDelayMs)
	case f.BlockedMinDelayMs < 0 || f.BlockedMaxDelayMs < f.BlockedMinDelayMs:
		return eris.Errorf("config: fetch blocked delay range [%d, %d] is invalid", f.BlockedMinDelayMs, f.BlockedMaxDelayMs)
	case f.RetryAttempts < 1:
		return eris.New("config: fetch.retry_attempts must be at least 1")
	case f.CacheSize < 1:
		return eris.New("config: fetch.cache_size must be at least 1")
	case f.MaxBodyBytes <= 0:
		return eris.New("config: fetch.max_body_bytes must be positive")
	case f.RatePerSecond <= 0:
		return eris.New("config: fetch.rate_per_second must be positive")
	}
	if c.Batch.MaxURLs < 1 || c.Batch.MaxURLs > MaxBatchURLs {
		return eris.Errorf("config: batch.max_urls must be between 1 and %d", MaxBatchURLs)
	}
	if c.Batch.Concurrency < 1 {
		return eris.New("config: batch.concurrency must be at least 1")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
