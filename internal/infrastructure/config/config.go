package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. GYMSYNC_GATEWAY_URL.
const EnvPrefix = "GYMSYNC"

// Config holds all application configuration.
type Config struct {
	Gateway   GatewayConfig
	Reconcile ReconcileConfig
	Storage   StorageConfig
	Logging   LogConfig
	DevServer DevServerConfig
}

// GatewayConfig holds remote service client configuration.
type GatewayConfig struct {
	URL               string        `split_words:"true"`
	Timeout           time.Duration `split_words:"true"`
	TransportRetries  int           `split_words:"true"`
	RequestsPerSecond float64       `split_words:"true"`
	Burst             int           `split_words:"true"`
}

// ReconcileConfig holds the profile refresh retry policy.
type ReconcileConfig struct {
	MaxAttempts int           `split_words:"true"`
	Delay       time.Duration `split_words:"true"`
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	Backend string `split_words:"true"`
	Dir     string `split_words:"true"`
	Encrypt bool   `split_words:"true"`
	KeyFile string `split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `split_words:"true"`
	Development bool   `split_words:"true"`
}

// DevServerConfig holds stub server configuration.
type DevServerConfig struct {
	Host              string   `split_words:"true"`
	Port              string   `split_words:"true"`
	RequestsPerSecond int      `split_words:"true"`
	Burst             int      `split_words:"true"`
	RateLimitEnabled  bool     `split_words:"true"`
	AllowedOrigins    []string `split_words:"true"`
}

// Load builds configuration from defaults, then the optional file at path,
// then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	// Fields without a matching variable keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns default.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:               "http://localhost:3000",
			Timeout:           30 * time.Second,
			TransportRetries:  2,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Reconcile: ReconcileConfig{
			MaxAttempts: 3,
			Delay:       500 * time.Millisecond,
		},
		Storage: StorageConfig{
			Backend: StorageFile,
			Dir:     DefaultStorageDir(),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		DevServer: DevServerConfig{
			Host:              "0.0.0.0",
			Port:              "3000",
			RequestsPerSecond: 100,
			Burst:             200,
			RateLimitEnabled:  true,
			AllowedOrigins:    []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

// DefaultStorageDir returns the per-user directory holding session files.
func DefaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".gymsync"
	}
	return filepath.Join(dir, "gymsync")
}

// KeyPath returns the encryption key location, defaulting to a file next
// to the session store.
func (s StorageConfig) KeyPath() string {
	if s.KeyFile != "" {
		return s.KeyFile
	}
	return filepath.Join(s.Dir, "session.key")
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Gateway.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid gateway url %q", c.Gateway.URL)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive, got %s", c.Gateway.Timeout)
	}
	if c.Gateway.TransportRetries < 0 {
		return fmt.Errorf("gateway transport retries must not be negative")
	}
	if c.Reconcile.MaxAttempts < 1 {
		return fmt.Errorf("reconcile max attempts must be at least 1, got %d", c.Reconcile.MaxAttempts)
	}
	if c.Reconcile.Delay < 0 {
		return fmt.Errorf("reconcile delay must not be negative")
	}
	switch c.Storage.Backend {
	case "", StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
