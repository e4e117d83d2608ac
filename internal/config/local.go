package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client configuration stored in ~/.matchme/config.yaml
type Config struct {
	API      APIConfig     `yaml:"api"`
	Auth     AuthConfig    `yaml:"auth"`
	Geocode  GeocodeConfig `yaml:"geocode"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	Events   EventsConfig  `yaml:"events"`
	LogLevel string        `yaml:"log_level"`
}

// APIConfig holds the remote API settings
type APIConfig struct {
	BaseURL        string               `yaml:"base_url"`
	Version        string               `yaml:"version"`
	Timeout        time.Duration        `yaml:"timeout"`
	ProfileTimeout time.Duration        `yaml:"profile_timeout"`
	Retry          RetryConfig          `yaml:"retry"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Bulkhead       BulkheadConfig       `yaml:"bulkhead"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

// RetryConfig holds the retry policy for transient failures
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// CircuitBreakerConfig holds circuit breaker settings
type CircuitBreakerConfig struct {
	Enabled             bool `yaml:"enabled"`
	ConsecutiveFailures int  `yaml:"consecutive_failures"`
}

// BulkheadConfig caps concurrent calls
type BulkheadConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// RateLimitConfig caps calls per second (0 disables)
type RateLimitConfig struct {
	PerSecond int `yaml:"per_second"`
}

// AuthConfig holds the session. The token is loaded from secrets.yaml.
type AuthConfig struct {
	UserID string `yaml:"user_id,omitempty"`
	Token  string `yaml:"-"`
}

// GeocodeConfig holds reverse-geocoding settings. The key is loaded from
// secrets.yaml.
type GeocodeConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"-"`
}

// LedgerConfig selects the swipe ledger
type LedgerConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	Path   string `yaml:"path,omitempty"`
}

// EventsConfig holds domain event publishing settings
type EventsConfig struct {
	RabbitMQURL string `yaml:"rabbitmq_url,omitempty"`
}

// SecretsConfig holds credentials stored in secrets.yaml
type SecretsConfig struct {
	Token         string `yaml:"token,omitempty"`
	GeocodeAPIKey string `yaml:"geocode_api_key,omitempty"`
}

// Dir returns the path to ~/.matchme
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".matchme"), nil
}

// EnsureDir creates ~/.matchme and its data directory
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, sub := range []string{"", "data"} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}
	return dir, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:3000",
			Version:        "v1",
			Timeout:        10 * time.Second,
			ProfileTimeout: 800 * time.Millisecond,
			Retry: RetryConfig{
				MaxRetries:   3,
				InitialDelay: 200 * time.Millisecond,
				MaxDelay:     2 * time.Second,
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:             true,
				ConsecutiveFailures: 5,
			},
			Bulkhead: BulkheadConfig{MaxConcurrent: 8},
		},
		Geocode: GeocodeConfig{
			BaseURL: "https://maps.googleapis.com/maps/api",
		},
		Ledger: LedgerConfig{
			Driver: "sqlite",
		},
		LogLevel: "info",
	}
}

// LoadFile reads config.yaml and secrets.yaml from dir over the defaults.
// Missing files are not an error.
func LoadFile(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loadSecrets(dir, cfg); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	if cfg.Ledger.Driver == "sqlite" && cfg.Ledger.Path == "" {
		cfg.Ledger.Path = filepath.Join(dir, "data", "ledger.db")
	}
	return cfg, nil
}

func loadSecrets(dir string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Join(dir, "secrets.yaml"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}

	var secrets SecretsConfig
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("parse secrets: %w", err)
	}
	cfg.Auth.Token = secrets.Token
	cfg.Geocode.APIKey = secrets.GeocodeAPIKey
	return nil
}

// Save writes config.yaml to dir
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveSecrets writes secrets.yaml to dir, readable by the owner only
func SaveSecrets(dir string, secrets SecretsConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	data, err := yaml.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "secrets.yaml"), data, 0o600); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}
	return nil
}
