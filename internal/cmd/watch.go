package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stationstack/station-insight/internal/exports"
	"github.com/stationstack/station-insight/internal/models"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an export directory and parse new files as they arrive",
	Long: `Watch a directory for new or rewritten export files and parse each one
once it settles. Useful next to a shared folder that stations export into.

Files already in the directory are parsed on startup. Each parsed file also
feeds a per-station analysis; on shutdown the recurring findings across the
whole session are mined and reported.

Examples:
  insight-engine watch --dir /srv/exports
  insight-engine watch --dir . --output json`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	dir := watchDir
	if dir == "" {
		dir = rt.cfg.Watch.Dir
	}
	if dir == "" {
		return fmt.Errorf("no watch directory: set --dir or the watch.dir config key")
	}

	renderer := newRenderer()
	opts := rt.cfg.Limits.ParseOptions()

	watcher, err := exports.NewWatcher(dir, rt.cfg.Watch.Patterns, rt.cfg.Watch.Debounce, rt.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("watching for exports", slog.String("dir", dir))
	go watcher.Start(ctx)

	var analyses []models.SystemAnalysis
	handle := func(path string) {
		file, err := exports.Load(path, opts.ByteCap())
		if err != nil {
			rt.logger.Error("load failed", slog.String("path", path), slog.Any("error", err))
			return
		}
		result := rt.svc.ParseFile(ctx, file.Content, file.Name, opts)
		if err := renderer.RenderParse(result); err != nil {
			rt.logger.Error("render failed", slog.Any("error", err))
		}
		if result.Success {
			var input models.AnalysisInput
			assignSlot(&input, result.Dataset)
			analyses = append(analyses, rt.svc.Analyze(ctx, input))
		}
	}

	// Parse whatever the directory already holds before waiting on events.
	existing, err := exports.Discover(dir, rt.cfg.Watch.Patterns)
	if err != nil {
		return err
	}
	for _, path := range existing {
		handle(path)
	}

	for event := range watcher.Events {
		handle(event.Path)
	}

	if len(analyses) > 1 {
		patterns, err := rt.svc.MinePatterns(context.Background(), dir, analyses)
		if err != nil {
			return err
		}
		if err := renderer.RenderPatterns(patterns); err != nil {
			return err
		}
	}
	return nil
}
