package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stationstack/station-insight/internal/exports"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse export files and print their summaries",
	Long: `Parse one or more export files. The format of each file is detected
automatically from its extension and header signature. Directory arguments
are expanded with the configured watch patterns.

Examples:
  insight-engine parse station_devices.csv
  insight-engine parse exports/ platform_details.txt --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
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

	failed := 0
	for _, path := range paths {
		file, err := exports.Load(path, opts.ByteCap())
		if err != nil {
			rt.logger.Error("load failed", slog.String("path", path), slog.Any("error", err))
			failed++
			continue
		}

		result := rt.svc.ParseFile(cmd.Context(), file.Content, file.Name, opts)
		if !result.Success {
			failed++
		}
		if err := renderer.RenderParse(result); err != nil {
			return err
		}
	}

	if failed == len(paths) {
		return fmt.Errorf("all %d file(s) failed to parse", failed)
	}
	return nil
}
