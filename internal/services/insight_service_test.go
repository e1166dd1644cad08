package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/cache"
	"github.com/stationstack/station-insight/internal/models"
	"github.com/stationstack/station-insight/internal/parsers"
)

func newTestService(provider cache.Provider) *InsightService {
	orch := parsers.NewOrchestrator(nil, nil)
	an := analysis.NewAnalyzer(analysis.DefaultThresholds(), nil)
	return NewInsightService(nil, orch, an, provider, time.Minute)
}

func TestParseFileCacheHit(t *testing.T) {
	svc := newTestService(cache.NewMemoryProvider(16))
	ctx := context.Background()
	content := "Name,Value\ncpu.usage,12%\n"

	first := svc.ParseFile(ctx, content, "resources.csv", models.ParseOptions{})
	require.True(t, first.Success)

	second := svc.ParseFile(ctx, content, "resources.csv", models.ParseOptions{})
	require.True(t, second.Success)
	// A cache hit replays the stored result, dataset id included; a fresh
	// parse would have minted a new one.
	assert.Equal(t, first.Dataset.ID, second.Dataset.ID)
}

func TestParseFileCacheKeyedByOptions(t *testing.T) {
	svc := newTestService(cache.NewMemoryProvider(16))
	ctx := context.Background()
	content := "Name,Value\ncpu.usage,12%\n"

	first := svc.ParseFile(ctx, content, "resources.csv", models.ParseOptions{})
	strict := svc.ParseFile(ctx, content, "resources.csv", models.ParseOptions{StrictValidation: true})
	assert.NotEqual(t, first.Dataset.ID, strict.Dataset.ID, "different options must not share a cache entry")

	renamed := svc.ParseFile(ctx, content, "other.csv", models.ParseOptions{})
	assert.NotEqual(t, first.Dataset.ID, renamed.Dataset.ID)
}

func TestParseFileFailureIsNotCached(t *testing.T) {
	provider := cache.NewMemoryProvider(16)
	svc := newTestService(provider)
	ctx := context.Background()

	// Strict network parse fails on the missing Status column.
	res := svc.ParseFile(ctx, "Name,Controller Type\nD,J\n", "network.csv", models.ParseOptions{})
	require.False(t, res.Success)

	key := parseCacheKey("Name,Controller Type\nD,J\n", "network.csv", models.ParseOptions{})
	_, err := provider.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestParseFileWithoutCache(t *testing.T) {
	svc := newTestService(nil)
	res := svc.ParseFile(context.Background(), "Name,Value\nk,v\n", "resources.csv", models.ParseOptions{})
	assert.True(t, res.Success)
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	parsed := svc.ParseFile(ctx, "Name,Value\ncpu.usage,92%\ntime.current,04-Aug-25 3:07 PM EDT\n", "resources.csv", models.ParseOptions{})
	require.True(t, parsed.Success)

	out := svc.Analyze(ctx, models.AnalysisInput{Resources: parsed.Dataset})
	assert.Equal(t, 1, out.Summary.CriticalCount)
	assert.Equal(t, 85, out.Summary.HealthScore)
}

func TestMinePatterns(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	stressed := "Name,Value\ncpu.usage,92%\ntime.current,04-Aug-25 3:07 PM EDT\n"
	var analyses []models.SystemAnalysis
	for _, name := range []string{"site-a.csv", "site-b.csv"} {
		parsed := svc.ParseFile(ctx, stressed, name, models.ParseOptions{})
		require.True(t, parsed.Success)
		analyses = append(analyses, svc.Analyze(ctx, models.AnalysisInput{Resources: parsed.Dataset}))
	}

	patterns, err := svc.MinePatterns(ctx, "site", analyses)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "cpu usage", patterns[0].Metric)
	assert.Equal(t, 1.0, patterns[0].Prevalence)
	assert.Equal(t, models.AlertCritical, patterns[0].Severity)

	// A single analysis can never recur.
	patterns, err = svc.MinePatterns(ctx, "site", analyses[:1])
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestFormats(t *testing.T) {
	svc := newTestService(nil)
	specs := svc.Formats()
	assert.Len(t, specs, 6)
}

func TestLatencyP95(t *testing.T) {
	svc := newTestService(nil)
	assert.Equal(t, time.Duration(0), svc.LatencyP95())

	svc.ParseFile(context.Background(), "Name,Value\nk,v\n", "resources.csv", models.ParseOptions{})
	assert.GreaterOrEqual(t, svc.LatencyP95(), time.Duration(0))
}
