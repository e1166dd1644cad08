package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels parses and analyses that produced a result.
	OutcomeSuccess = "success"
	// OutcomeError labels failed parses and analyses.
	OutcomeError = "error"
)

var (
	parsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "station_insight",
			Name:      "parses_total",
			Help:      "Total number of files parsed, partitioned by detected format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	parseDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "station_insight",
			Name:      "parse_seconds",
			Help:      "Single-file parse latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "station_insight",
			Name:      "analyses_total",
			Help:      "Total number of cross-dataset analyses, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "station_insight",
			Name:      "analysis_seconds",
			Help:      "Cross-dataset analysis latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// Register attaches the insight-engine collectors to the supplied Prometheus
// registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		parsesTotal,
		parseDurationSeconds,
		analysesTotal,
		analysisDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveParse records one file parse with its detected format and outcome.
func ObserveParse(duration time.Duration, format, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	parsesTotal.WithLabelValues(format, label).Inc()
	if duration < 0 {
		duration = 0
	}
	parseDurationSeconds.Observe(duration.Seconds())
}

// ObserveAnalysis records one cross-dataset analysis.
func ObserveAnalysis(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}
