package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk shape. Durations are strings like "500ms".
type fileConfig struct {
	Gateway struct {
		URL               string  `toml:"url" yaml:"url"`
		Timeout           string  `toml:"timeout" yaml:"timeout"`
		TransportRetries  int     `toml:"transport_retries" yaml:"transport_retries"`
		RequestsPerSecond float64 `toml:"rps" yaml:"rps"`
		Burst             int     `toml:"burst" yaml:"burst"`
	} `toml:"gateway" yaml:"gateway"`
	Reconcile struct {
		MaxAttempts int    `toml:"max_attempts" yaml:"max_attempts"`
		Delay       string `toml:"delay" yaml:"delay"`
	} `toml:"reconcile" yaml:"reconcile"`
	Storage struct {
		Backend string `toml:"backend" yaml:"backend"`
		Dir     string `toml:"dir" yaml:"dir"`
		Encrypt bool   `toml:"encrypt" yaml:"encrypt"`
		KeyFile string `toml:"key_file" yaml:"key_file"`
	} `toml:"storage" yaml:"storage"`
	Logging struct {
		Level       string `toml:"level" yaml:"level"`
		Development bool   `toml:"dev" yaml:"dev"`
	} `toml:"logging" yaml:"logging"`
	DevServer struct {
		Host              string   `toml:"host" yaml:"host"`
		Port              string   `toml:"port" yaml:"port"`
		RequestsPerSecond int      `toml:"rps" yaml:"rps"`
		Burst             int      `toml:"burst" yaml:"burst"`
		RateLimitEnabled  bool     `toml:"rate_limit_enabled" yaml:"rate_limit_enabled"`
		AllowedOrigins    []string `toml:"allowed_origins" yaml:"allowed_origins"`
	} `toml:"devserver" yaml:"devserver"`
}

// LoadFile overlays the TOML or YAML file at path onto cfg. Keys missing
// from the file leave cfg untouched.
func LoadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil
	}

	fc := toFile(cfg)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(content, fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, fc)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc.apply(cfg)
}

func toFile(cfg *Config) *fileConfig {
	fc := &fileConfig{}
	fc.Gateway.URL = cfg.Gateway.URL
	fc.Gateway.Timeout = cfg.Gateway.Timeout.String()
	fc.Gateway.TransportRetries = cfg.Gateway.TransportRetries
	fc.Gateway.RequestsPerSecond = cfg.Gateway.RequestsPerSecond
	fc.Gateway.Burst = cfg.Gateway.Burst
	fc.Reconcile.MaxAttempts = cfg.Reconcile.MaxAttempts
	fc.Reconcile.Delay = cfg.Reconcile.Delay.String()
	fc.Storage.Backend = cfg.Storage.Backend
	fc.Storage.Dir = cfg.Storage.Dir
	fc.Storage.Encrypt = cfg.Storage.Encrypt
	fc.Storage.KeyFile = cfg.Storage.KeyFile
	fc.Logging.Level = cfg.Logging.Level
	fc.Logging.Development = cfg.Logging.Development
	fc.DevServer.Host = cfg.DevServer.Host
	fc.DevServer.Port = cfg.DevServer.Port
	fc.DevServer.RequestsPerSecond = cfg.DevServer.RequestsPerSecond
	fc.DevServer.Burst = cfg.DevServer.Burst
	fc.DevServer.RateLimitEnabled = cfg.DevServer.RateLimitEnabled
	fc.DevServer.AllowedOrigins = cfg.DevServer.AllowedOrigins
	return fc
}

func (fc *fileConfig) apply(cfg *Config) error {
	timeout, err := time.ParseDuration(strings.TrimSpace(fc.Gateway.Timeout))
	if err != nil {
		return fmt.Errorf("gateway.timeout: %w", err)
	}
	delay, err := time.ParseDuration(strings.TrimSpace(fc.Reconcile.Delay))
	if err != nil {
		return fmt.Errorf("reconcile.delay: %w", err)
	}

	cfg.Gateway = GatewayConfig{
		URL:               strings.TrimSpace(fc.Gateway.URL),
		Timeout:           timeout,
		TransportRetries:  fc.Gateway.TransportRetries,
		RequestsPerSecond: fc.Gateway.RequestsPerSecond,
		Burst:             fc.Gateway.Burst,
	}
	cfg.Reconcile = ReconcileConfig{
		MaxAttempts: fc.Reconcile.MaxAttempts,
		Delay:       delay,
	}
	cfg.Storage = StorageConfig{
		Backend: strings.TrimSpace(fc.Storage.Backend),
		Dir:     strings.TrimSpace(fc.Storage.Dir),
		Encrypt: fc.Storage.Encrypt,
		KeyFile: strings.TrimSpace(fc.Storage.KeyFile),
	}
	cfg.Logging = LogConfig{
		Level:       strings.ToLower(strings.TrimSpace(fc.Logging.Level)),
		Development: fc.Logging.Development,
	}
	cfg.DevServer = DevServerConfig{
		Host:              fc.DevServer.Host,
		Port:              fc.DevServer.Port,
		RequestsPerSecond: fc.DevServer.RequestsPerSecond,
		Burst:             fc.DevServer.Burst,
		RateLimitEnabled:  fc.DevServer.RateLimitEnabled,
		AllowedOrigins:    fc.DevServer.AllowedOrigins,
	}
	return nil
}
