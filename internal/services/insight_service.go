// Package services hosts the facade the transports (HTTP API, CLI) call into.
// It owns cross-cutting concerns around the parsing core: result caching,
// metrics, and latency tracking.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/cache"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/metrics"
	"github.com/stationstack/station-insight/internal/models"
	"github.com/stationstack/station-insight/internal/parsers"
	"github.com/stationstack/station-insight/internal/patterns"
	"github.com/stationstack/station-insight/internal/utils"
)

// InsightService fronts the parsing and analysis core for all transports.
type InsightService struct {
	logger       *slog.Logger
	orchestrator *parsers.Orchestrator
	analyzer     *analysis.Analyzer
	miner        *patterns.Miner
	cache        cache.Provider
	cacheTTL     time.Duration
	latencies    *utils.LatencyTracker
}

// NewInsightService constructs the service facade. A nil cache provider
// disables result caching.
func NewInsightService(logger *slog.Logger, orchestrator *parsers.Orchestrator, analyzer *analysis.Analyzer, cacheProvider cache.Provider, cacheTTL time.Duration) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &InsightService{
		logger:       logger,
		orchestrator: orchestrator,
		analyzer:     analyzer,
		miner:        patterns.NewMiner(logger, nil),
		cache:        cacheProvider,
		cacheTTL:     cacheTTL,
		latencies:    utils.NewLatencyTracker(1024),
	}
}

// ParseFile runs one file through detection and parsing. Identical
// content+filename+options hit the result cache; the parse itself is pure, so
// cached results only differ in ids and timestamps.
func (s *InsightService) ParseFile(ctx context.Context, content, filename string, opts models.ParseOptions) models.ParseResult {
	key := parseCacheKey(content, filename, opts)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached models.ParseResult
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug("parse cache hit", slog.String("file", filename))
			return cached
		}
		_ = s.cache.Del(ctx, key)
	}

	start := time.Now()
	result := s.orchestrator.ParseFile(content, filename, opts)
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if !result.Success {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveParse(duration, string(result.Detection.Format), outcome)

	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("parse latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	if result.Success {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.Warn("parse cache store failed", slog.Any("error", err))
			}
		}
	}

	return result
}

// Analyze combines parsed datasets into a unified system report.
func (s *InsightService) Analyze(_ context.Context, input models.AnalysisInput) models.SystemAnalysis {
	start := time.Now()
	result := s.analyzer.Analyze(input)
	metrics.ObserveAnalysis(time.Since(start), metrics.OutcomeSuccess)
	return result
}

// MinePatterns surfaces the recurring findings across a batch of analyses,
// most prevalent first. fleetID labels the batch for logging and storage.
func (s *InsightService) MinePatterns(ctx context.Context, fleetID string, analyses []models.SystemAnalysis) ([]models.FleetPattern, error) {
	return s.miner.Mine(ctx, fleetID, analyses)
}

// Formats lists every registered format spec for discovery endpoints.
func (s *InsightService) Formats() []models.FormatSpec {
	return formats.All()
}

// LatencyP95 returns the current p95 parse latency.
func (s *InsightService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func parseCacheKey(content, filename string, opts models.ParseOptions) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(filename))
	fmt.Fprintf(h, "|%d|%d|%t|%t|%s", opts.RowCap(), opts.ByteCap(), opts.StrictValidation, opts.SanitizeData, opts.FormatHint)
	return "parse:" + hex.EncodeToString(h.Sum(nil))
}
