package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, ":2112", cfg.Server.MetricsAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.GracefulTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, models.DefaultMaxRows, cfg.Limits.MaxRows)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"**/*.csv", "**/*.txt"}, cfg.Watch.Patterns)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  address: ":9090"
logging:
  level: debug
  json: true
limits:
  maxRows: 500
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, 500, cfg.Limits.MaxRows)
	assert.False(t, cfg.Cache.Enabled)
	// Unset keys keep their defaults.
	assert.Equal(t, ":2112", cfg.Server.MetricsAddress)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STATION_INSIGHT_SERVER_ADDRESS", ":7070")
	t.Setenv("STATION_INSIGHT_LOG_LEVEL", "warn")
	t.Setenv("STATION_INSIGHT_MAX_ROWS", "42")
	t.Setenv("STATION_INSIGHT_STRICT_VALIDATION", "true")
	t.Setenv("STATION_INSIGHT_CACHE_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 42, cfg.Limits.MaxRows)
	assert.True(t, cfg.Limits.StrictValidation)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestParseOptionsProjection(t *testing.T) {
	limits := LimitsConfig{MaxRows: 10, MaxBytes: 1024, StrictValidation: true, SanitizeData: true}
	opts := limits.ParseOptions()
	assert.Equal(t, 10, opts.MaxRows)
	assert.Equal(t, int64(1024), opts.MaxBytes)
	assert.True(t, opts.StrictValidation)
	assert.True(t, opts.SanitizeData)
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, isTruthy("true"))
	assert.True(t, isTruthy("TRUE"))
	assert.True(t, isTruthy("1"))
	assert.False(t, isTruthy("yes"))
	assert.False(t, isTruthy(""))
}
