package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stationstack/station-insight/internal/models"
)

// Config captures the settings required to run the insight engine.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Limits     LimitsConfig     `yaml:"limits"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Cache      CacheConfig      `yaml:"cache"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// LimitsConfig sets the per-file ingestion caps.
type LimitsConfig struct {
	MaxRows          int   `yaml:"maxRows"`
	MaxBytes         int64 `yaml:"maxBytes"`
	StrictValidation bool  `yaml:"strictValidation"`
	SanitizeData     bool  `yaml:"sanitizeData"`
}

// ParseOptions projects the limits into per-call parse options.
func (l LimitsConfig) ParseOptions() models.ParseOptions {
	return models.ParseOptions{
		MaxRows:          l.MaxRows,
		MaxBytes:         l.MaxBytes,
		StrictValidation: l.StrictValidation,
		SanitizeData:     l.SanitizeData,
	}
}

// ThresholdsConfig points at an optional YAML override of the built-in
// threshold table.
type ThresholdsConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the in-memory parse-result cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
}

// WatchConfig controls export-directory watching.
type WatchConfig struct {
	Dir      string        `yaml:"dir"`
	Patterns []string      `yaml:"patterns"`
	Debounce time.Duration `yaml:"debounce"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("STATION_INSIGHT_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Limits: LimitsConfig{
			MaxRows:  models.DefaultMaxRows,
			MaxBytes: models.DefaultMaxBytes,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 256,
		},
		Watch: WatchConfig{
			Patterns: []string{"**/*.csv", "**/*.txt"},
			Debounce: 500 * time.Millisecond,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STATION_INSIGHT_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("STATION_INSIGHT_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("STATION_INSIGHT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STATION_INSIGHT_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("STATION_INSIGHT_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxRows = n
		}
	}
	if v := os.Getenv("STATION_INSIGHT_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.MaxBytes = n
		}
	}
	if v := os.Getenv("STATION_INSIGHT_STRICT_VALIDATION"); v != "" {
		cfg.Limits.StrictValidation = isTruthy(v)
	}
	if v := os.Getenv("STATION_INSIGHT_SANITIZE_DATA"); v != "" {
		cfg.Limits.SanitizeData = isTruthy(v)
	}
	if v := os.Getenv("STATION_INSIGHT_THRESHOLDS_PATH"); v != "" {
		cfg.Thresholds.Path = v
	}
	if v := os.Getenv("STATION_INSIGHT_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = isTruthy(v)
	}
	if v := os.Getenv("STATION_INSIGHT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("STATION_INSIGHT_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("STATION_INSIGHT_WATCH_DIR"); v != "" {
		cfg.Watch.Dir = v
	}
	if v := os.Getenv("STATION_INSIGHT_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}

func isTruthy(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
}
