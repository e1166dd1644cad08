package parsers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stationstack/station-insight/internal/detect"
	"github.com/stationstack/station-insight/internal/models"
)

// fallbackConfidence is the detection score below which an unparseable format
// is worth a last-resort telemetry attempt. Many loosely related key-value
// exports satisfy the telemetry parser's two-column shape.
const fallbackConfidence = 70

// Orchestrator routes a file through detection to the right parser and
// shields callers from everything that can go wrong inside.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
}

func NewOrchestrator(registry *Registry, logger *slog.Logger) *Orchestrator {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{registry: registry, logger: logger}
}

// ParseFile detects the file's format and runs the matching parser. It never
// panics past its own boundary: any internal failure becomes a failure result
// with format "unknown" and a diagnostic error.
func (o *Orchestrator) ParseFile(content, filename string, opts models.ParseOptions) (result models.ParseResult) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("parse recovered from panic",
				slog.String("file", filename),
				slog.Any("panic", r))
			result = models.ParseResult{
				Success:      false,
				Errors:       []string{fmt.Sprintf("internal error while parsing %s: %v", filename, r)},
				Warnings:     []string{},
				Detection:    models.DetectionResult{Format: models.FormatUnknown},
				ProcessingMS: time.Since(started).Milliseconds(),
			}
		}
	}()

	detection := detect.Detect(content, filename, opts.FormatHint)
	o.logger.Debug("format detected",
		slog.String("file", filename),
		slog.String("format", string(detection.Format)),
		slog.Int("confidence", detection.Confidence))

	parser, ok := o.registry.Lookup(detection.Format)
	if !ok {
		if detection.Confidence < fallbackConfidence && detection.Format != models.FormatResourceTelemetry {
			if res, salvaged := o.tryTelemetryFallback(content, filename, opts, detection, started); salvaged {
				return res
			}
		}
		return models.ParseResult{
			Success:      false,
			Errors:       []string{fmt.Sprintf("no parser is implemented for detected format %q", detection.Format)},
			Warnings:     []string{},
			Detection:    detection,
			ProcessingMS: time.Since(started).Milliseconds(),
		}
	}

	ds, err := parser(content, filename, opts)
	if err != nil {
		return models.ParseResult{
			Success:      false,
			Errors:       []string{err.Error()},
			Warnings:     []string{},
			Detection:    detection,
			ProcessingMS: time.Since(started).Milliseconds(),
		}
	}

	// Parser-assigned confidence is provisional; once format identity is
	// settled the detection score is authoritative.
	ds.Metadata.Confidence = detection.Confidence

	return models.ParseResult{
		Success:      true,
		Dataset:      ds,
		Errors:       []string{},
		Warnings:     ds.Metadata.Warnings,
		Detection:    detection,
		ProcessingMS: time.Since(started).Milliseconds(),
	}
}

// tryTelemetryFallback attempts the telemetry parser on a low-confidence
// detection that has no registered parser of its own.
func (o *Orchestrator) tryTelemetryFallback(content, filename string, opts models.ParseOptions, detection models.DetectionResult, started time.Time) (models.ParseResult, bool) {
	fallback, ok := o.registry.Lookup(models.FormatResourceTelemetry)
	if !ok {
		return models.ParseResult{}, false
	}
	ds, err := fallback(content, filename, opts)
	if err != nil {
		return models.ParseResult{}, false
	}

	warning := fmt.Sprintf("detected format %q has no parser; parsed as resource telemetry (low-confidence fallback)", detection.Format)
	ds.Metadata.Warnings = append(ds.Metadata.Warnings, warning)
	ds.Metadata.Confidence = detection.Confidence

	o.logger.Warn("telemetry fallback engaged",
		slog.String("file", filename),
		slog.String("detected", string(detection.Format)))

	return models.ParseResult{
		Success:      true,
		Dataset:      ds,
		Errors:       []string{},
		Warnings:     ds.Metadata.Warnings,
		Detection:    detection,
		ProcessingMS: time.Since(started).Milliseconds(),
	}, true
}
