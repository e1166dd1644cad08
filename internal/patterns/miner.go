// Package patterns mines recurring findings out of a batch of system
// analyses. A site running dozens of stations exports them in bulk; the miner
// surfaces what keeps going wrong across the fleet instead of per file.
package patterns

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/stationstack/station-insight/internal/models"
)

// Store abstracts persistence for mined patterns.
type Store interface {
	StorePatterns(ctx context.Context, fleetID string, patterns []models.FleetPattern) error
}

// Miner mines frequency-based alert patterns from a batch of analyses.
type Miner struct {
	store  Store
	logger *slog.Logger
}

// NewMiner constructs a Miner; store may be nil for dry runs.
func NewMiner(logger *slog.Logger, store Store) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{store: store, logger: logger}
}

// Mine aggregates the alerts of a fleet's analyses by metric and returns the
// recurring ones, most prevalent first. A metric must fire in more than one
// analysis to count as a pattern.
func (m *Miner) Mine(ctx context.Context, fleetID string, analyses []models.SystemAnalysis) ([]models.FleetPattern, error) {
	if len(analyses) == 0 {
		return nil, nil
	}

	stats := make(map[string]*metricAggregate)
	for _, analysis := range analyses {
		seen := make(map[string]struct{})
		for _, alert := range analysis.Alerts.Alerts {
			agg := ensureAggregate(stats, alert.Metric)
			agg.occurrences++
			if alert.Timestamp.After(agg.lastSeen) {
				agg.lastSeen = alert.Timestamp
			}
			agg.observe(alert)
			if _, dup := seen[alert.Metric]; !dup {
				seen[alert.Metric] = struct{}{}
				agg.analysesHit++
			}
		}
	}

	patterns := make([]models.FleetPattern, 0, len(stats))
	for metric, agg := range stats {
		if agg.analysesHit < 2 {
			continue
		}
		pattern := models.FleetPattern{
			ID:          "pattern-" + metric,
			Name:        metric + " recurring",
			Description: "Recurring finding mined from fleet analyses",
			Metric:      metric,
			Severity:    agg.worstSeverity(),
			Occurrences: agg.occurrences,
			Prevalence:  float64(agg.analysesHit) / float64(len(analyses)),
			LastSeen:    agg.lastSeen,
			Templates:   agg.topTemplates(metric, 3),
		}
		patterns = append(patterns, pattern)
	}

	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Prevalence > patterns[j].Prevalence
	})

	if m.store != nil && len(patterns) > 0 {
		if err := m.store.StorePatterns(ctx, fleetID, patterns); err != nil {
			m.logger.Warn("pattern store failed", slog.Any("error", err))
		}
	}

	return patterns, nil
}

// metricAggregate accumulates the alerts seen for one metric across a batch.
type metricAggregate struct {
	occurrences int
	analysesHit int
	lastSeen    time.Time
	criticals   int
	templates   map[templateKey]*templateStats
}

type templateKey struct {
	category models.AlertCategory
	severity models.AlertSeverity
}

type templateStats struct {
	count     int
	lastValue string
}

func ensureAggregate(m map[string]*metricAggregate, metric string) *metricAggregate {
	if metric == "" {
		metric = "unknown"
	}
	agg, ok := m[metric]
	if !ok {
		agg = &metricAggregate{templates: make(map[templateKey]*templateStats)}
		m[metric] = agg
	}
	return agg
}

func (agg *metricAggregate) observe(alert models.Alert) {
	if alert.Severity == models.AlertCritical {
		agg.criticals++
	}
	key := templateKey{category: alert.Category, severity: alert.Severity}
	ts, ok := agg.templates[key]
	if !ok {
		ts = &templateStats{}
		agg.templates[key] = ts
	}
	ts.count++
	ts.lastValue = alert.Value
}

func (agg *metricAggregate) worstSeverity() models.AlertSeverity {
	if agg.criticals > 0 {
		return models.AlertCritical
	}
	return models.AlertWarning
}

func (agg *metricAggregate) topTemplates(metric string, limit int) []models.AlertTemplate {
	out := make([]models.AlertTemplate, 0, len(agg.templates))
	for key, ts := range agg.templates {
		out = append(out, models.AlertTemplate{
			Metric:       metric,
			Category:     key.category,
			Severity:     key.severity,
			TypicalValue: ts.lastValue,
			Count:        ts.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
