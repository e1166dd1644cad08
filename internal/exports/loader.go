// Package exports handles the file-side of the engine: discovering export
// files on disk, loading them within the configured caps, and watching
// directories for new drops. The parsing core never touches the filesystem;
// everything it sees comes through here as a string.
package exports

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stationstack/station-insight/internal/utils"
)

// File is one loaded export: its on-disk path and raw content.
type File struct {
	Path    string
	Name    string
	Content string
}

// Load reads one export file, rejecting anything over maxBytes before the
// content is pulled into memory.
func Load(path string, maxBytes int64) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, utils.NewAppError("exports.Load", "stat export file", err)
	}
	if info.IsDir() {
		return File{}, utils.NewAppError("exports.Load", fmt.Sprintf("%s is a directory", path), nil)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return File{}, utils.NewAppError("exports.Load",
			fmt.Sprintf("%s is %d bytes, over the %d byte cap", path, info.Size(), maxBytes), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, utils.NewAppError("exports.Load", "read export file", err)
	}

	return File{
		Path:    path,
		Name:    filepath.Base(path),
		Content: string(data),
	}, nil
}

// ExpandPaths resolves command-line inputs into concrete file paths.
// Directory arguments are expanded through Discover with the given patterns;
// plain paths pass through untouched. Input order is kept and duplicates
// collapse to their first occurrence.
func ExpandPaths(args, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			matches, err := Discover(arg, patterns)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		// Missing paths stay in the list so Load can report them per file.
		add(arg)
	}
	return out, nil
}

// Discover expands glob patterns (doublestar syntax, so "**/*.csv" recurses)
// relative to dir and returns the matching file paths.
func Discover(dir string, patterns []string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, utils.NewAppError("exports.Discover", fmt.Sprintf("bad pattern %q", pattern), err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}
