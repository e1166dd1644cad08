package exports

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event is one settled file change: a new or rewritten export ready to parse.
type Event struct {
	Path string
}

// Watcher monitors an export directory and emits an Event once a file has
// stopped changing for the debounce window. Export tools write files in
// chunks, so reacting to the first write would parse half a file.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	dir      string
	patterns []string
	debounce time.Duration
	Events   chan Event
}

// NewWatcher creates a watcher over dir for files matching the doublestar
// patterns.
func NewWatcher(dir string, patterns []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		dir:      dir,
		patterns: patterns,
		debounce: debounce,
		Events:   make(chan Event, 64),
	}, nil
}

// Start blocks until the context is cancelled, forwarding debounced events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				select {
				case w.Events <- Event{Path: path}:
				default:
					w.logger.Warn("watch event dropped", slog.String("path", path))
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(strings.TrimPrefix(pattern, "./"), rel); err == nil && ok {
			return true
		}
	}
	return false
}
