// Package config loads the client configuration: defaults, then
// ~/.matchme/config.yaml and secrets.yaml, then a .env file, then the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/matchme/internal/remote"
)

// Environment variables
const (
	EnvBaseURL     = "MATCHME_API_BASE_URL"
	EnvToken       = "MATCHME_TOKEN"
	EnvUserID      = "MATCHME_USER_ID"
	EnvGeocodeKey  = "GOOGLE_MAP_API"
	EnvRabbitMQURL = "MATCHME_RABBITMQ_URL"
	EnvLogLevel    = "MATCHME_LOG_LEVEL"
	EnvLedgerPath  = "MATCHME_LEDGER_PATH"
	EnvMaxRetries  = "MATCHME_MAX_RETRIES"
)

// Load reads the configuration from ~/.matchme, ./.env and the environment
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir, ".env")
}

// LoadFrom reads the configuration from dir and envFile. Variables already
// set in the environment win over the ones in envFile.
func LoadFrom(dir, envFile string) (*Config, error) {
	cfg, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv(EnvBaseURL, c.API.BaseURL)
	c.API.Retry.MaxRetries = getEnvInt(EnvMaxRetries, c.API.Retry.MaxRetries)
	c.Auth.Token = getEnv(EnvToken, c.Auth.Token)
	c.Auth.UserID = getEnv(EnvUserID, c.Auth.UserID)
	c.Geocode.APIKey = getEnv(EnvGeocodeKey, c.Geocode.APIKey)
	c.Events.RabbitMQURL = getEnv(EnvRabbitMQURL, c.Events.RabbitMQURL)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.Ledger.Path = getEnv(EnvLedgerPath, c.Ledger.Path)
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if c.API.BaseURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.ProfileTimeout <= 0 {
		errs = append(errs, errors.New("api.profile_timeout must be positive"))
	}
	if c.API.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("api.retry.max_retries must not be negative"))
	}
	if c.API.Bulkhead.MaxConcurrent < 0 || c.API.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("api limits must not be negative"))
	}
	switch c.Ledger.Driver {
	case "memory":
	case "sqlite":
		if c.Ledger.Path == "" {
			errs = append(errs, errors.New("ledger.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger.driver %q must be memory or sqlite", c.Ledger.Driver))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// APIURL returns the versioned base URL
func (c *Config) APIURL() string {
	base := strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Version == "" {
		return base
	}
	return base + "/" + strings.Trim(c.API.Version, "/")
}

// Resilience converts the API settings for the remote client
func (c *Config) Resilience() remote.ResilienceConfig {
	return remote.ResilienceConfig{
		MaxRetries:       c.API.Retry.MaxRetries,
		InitialDelay:     c.API.Retry.InitialDelay,
		MaxDelay:         c.API.Retry.MaxDelay,
		CircuitBreaker:   c.API.CircuitBreaker.Enabled,
		BreakerThreshold: c.API.CircuitBreaker.ConsecutiveFailures,
		MaxConcurrent:    c.API.Bulkhead.MaxConcurrent,
		RatePerSecond:    c.API.RateLimit.PerSecond,
	}
}

// ParseLevel maps a log level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
