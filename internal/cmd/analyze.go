package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stationstack/station-insight/internal/exports"
	"github.com/stationstack/station-insight/internal/models"
	"github.com/stationstack/station-insight/internal/render"
)

var analyzeFleet bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Combine export files into a unified system health report",
	Long: `Parse a set of export files from the same station and combine them into
one cross-dataset analysis: identity, resource utilization, inventory,
licenses, certificates, threshold alerts and a health score.

Each file is routed to an analysis slot by its detected format. A second
controller network export fills the secondary-devices slot. Directory
arguments are expanded with the configured watch patterns.

With --fleet, each file is analyzed as its own station and the recurring
findings across the batch are mined and reported afterwards.

Examples:
  insight-engine analyze exports/*.csv exports/platform_details.txt
  insight-engine analyze --fleet site-exports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFleet, "fleet", false,
		"analyze each file as a separate station and mine recurring findings across them")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	renderer := newRenderer()
	opts := rt.cfg.Limits.ParseOptions()

	paths, err := exports.ExpandPaths(args, rt.cfg.Watch.Patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no export files matched the given paths")
	}

	if analyzeFleet {
		return runFleetAnalyze(cmd, rt, renderer, paths, opts)
	}

	var input models.AnalysisInput
	parsed := 0
	for _, path := range paths {
		file, err := exports.Load(path, opts.ByteCap())
		if err != nil {
			rt.logger.Error("load failed", slog.String("path", path), slog.Any("error", err))
			continue
		}

		result := rt.svc.ParseFile(cmd.Context(), file.Content, file.Name, opts)
		if !result.Success {
			rt.logger.Warn("parse failed, excluding from analysis",
				slog.String("path", path),
				slog.Any("errors", result.Errors))
			continue
		}
		parsed++

		if !assignSlot(&input, result.Dataset) {
			rt.logger.Warn("no free analysis slot for dataset",
				slog.String("path", path),
				slog.String("format", string(result.Dataset.Format)))
		}
	}

	if parsed == 0 {
		return fmt.Errorf("none of the %d file(s) could be parsed", len(paths))
	}

	analysis := rt.svc.Analyze(cmd.Context(), input)
	return renderer.RenderAnalysis(analysis)
}

// runFleetAnalyze treats every file as a standalone station: each gets its own
// single-dataset analysis, then the miner reports what recurs across them.
func runFleetAnalyze(cmd *cobra.Command, rt *runtime, renderer render.Renderer, paths []string, opts models.ParseOptions) error {
	var analyses []models.SystemAnalysis
	for _, path := range paths {
		file, err := exports.Load(path, opts.ByteCap())
		if err != nil {
			rt.logger.Error("load failed", slog.String("path", path), slog.Any("error", err))
			continue
		}

		result := rt.svc.ParseFile(cmd.Context(), file.Content, file.Name, opts)
		if !result.Success {
			rt.logger.Warn("parse failed, excluding from fleet batch",
				slog.String("path", path),
				slog.Any("errors", result.Errors))
			continue
		}

		var input models.AnalysisInput
		assignSlot(&input, result.Dataset)
		analysis := rt.svc.Analyze(cmd.Context(), input)
		if err := renderer.RenderAnalysis(analysis); err != nil {
			return err
		}
		analyses = append(analyses, analysis)
	}

	if len(analyses) == 0 {
		return fmt.Errorf("none of the %d file(s) could be parsed", len(paths))
	}

	patterns, err := rt.svc.MinePatterns(cmd.Context(), "fleet", analyses)
	if err != nil {
		return err
	}
	return renderer.RenderPatterns(patterns)
}

// assignSlot routes a dataset to its analysis slot by format. A second
// controller network export lands in the secondary-devices slot.
func assignSlot(input *models.AnalysisInput, ds *models.Dataset) bool {
	switch ds.Format {
	case models.FormatPlatformInfo:
		if input.Platform == nil {
			input.Platform = ds
			return true
		}
	case models.FormatResourceTelemetry:
		if input.Resources == nil {
			input.Resources = ds
			return true
		}
	case models.FormatNetworkDevice:
		if input.NetworkDevices == nil {
			input.NetworkDevices = ds
			return true
		}
		if input.SecondaryDevices == nil {
			input.SecondaryDevices = ds
			return true
		}
	case models.FormatDeviceInventory:
		if input.DeviceInventory == nil {
			input.DeviceInventory = ds
			return true
		}
		if input.SecondaryDevices == nil {
			input.SecondaryDevices = ds
			return true
		}
	case models.FormatNetworkTopology:
		if input.Topology == nil {
			input.Topology = ds
			return true
		}
	}
	return false
}
