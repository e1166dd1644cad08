// Package cmd wires the insight-engine CLI: one-shot parse and analyze
// commands, a directory watcher, and the HTTP server.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/cache"
	"github.com/stationstack/station-insight/internal/config"
	"github.com/stationstack/station-insight/internal/parsers"
	"github.com/stationstack/station-insight/internal/render"
	"github.com/stationstack/station-insight/internal/services"
	"github.com/stationstack/station-insight/internal/utils"
)

var (
	cfgFile   string
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "insight-engine",
	Short: "insight-engine — building automation export analysis",
	Long: `insight-engine parses station export files (controller networks, device
inventories, resource telemetry, station topologies, platform dumps), detects
their format automatically, and combines them into a unified health report
with threshold alerts and recommendations.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $STATION_INSIGHT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
}

// runtime bundles everything a command needs after boot.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *services.InsightService
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

	thresholds, err := analysis.LoadThresholds(cfg.Thresholds.Path)
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled {
		cacheProvider = cache.NewMemoryProvider(cfg.Cache.MaxEntries)
	}

	orchestrator := parsers.NewOrchestrator(parsers.NewRegistry(), logger)
	analyzer := analysis.NewAnalyzer(thresholds, logger)
	svc := services.NewInsightService(logger, orchestrator, analyzer, cacheProvider, cfg.Cache.TTL)

	return &runtime{cfg: cfg, logger: logger, svc: svc}, nil
}

func newRenderer() render.Renderer {
	if strings.EqualFold(outputFmt, "json") {
		return render.NewJSONRenderer()
	}
	return render.NewTextRenderer()
}
