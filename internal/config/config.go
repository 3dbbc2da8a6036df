// Package config loads taskboard settings from defaults, an optional TOML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr           = ":8080"
	DefaultStorageDriver  = "file"
	DefaultStorageDSN     = "data"
	DefaultStorageKey     = "todos"
	DefaultRequestTimeout = 15 * time.Second
)

type Config struct {
	Addr           string        `toml:"addr"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	CORSOrigins    []string      `toml:"cors_origins"`

	Storage   StorageConfig   `toml:"storage"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Tracing   TracingConfig   `toml:"tracing"`
}

type StorageConfig struct {
	// Driver is one of memory, file, sqlite or redis.
	Driver string `toml:"driver"`
	// DSN is a directory (file), database path (sqlite) or URL (redis).
	DSN string `toml:"dsn"`
	Key string `toml:"key"`
}

type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

type TracingConfig struct {
	// Exporter is one of none, stdout or otlp.
	Exporter string `toml:"exporter"`
}

func Default() *Config {
	return &Config{
		Addr:           DefaultAddr,
		LogLevel:       "info",
		LogFormat:      "json",
		RequestTimeout: DefaultRequestTimeout,
		CORSOrigins:    []string{"*"},
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			DSN:    DefaultStorageDSN,
			Key:    DefaultStorageKey,
		},
		RateLimit: RateLimitConfig{Burst: 10},
		Tracing:   TracingConfig{Exporter: "none"},
	}
}

// Load applies defaults, then the TOML file at path (skipped when path is
// empty), then environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKBOARD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKBOARD_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("TASKBOARD_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("TASKBOARD_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("TASKBOARD_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TASKBOARD_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("TASKBOARD_RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimit.RPS = f
	}
	if v := os.Getenv("TASKBOARD_RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimit.Burst = n
	}
	if v := os.Getenv("TASKBOARD_TRACING_EXPORTER"); v != "" {
		cfg.Tracing.Exporter = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "memory":
	case "file", "sqlite", "redis":
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}
	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("unknown tracing exporter %q", c.Tracing.Exporter))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate_limit.rps must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}

	return errors.Join(errs...)
}
