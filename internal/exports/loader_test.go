package exports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "resources.csv", "Name,Value\ncpu.usage,12%\n")

	f, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, "resources.csv", f.Name)
	assert.Contains(t, f.Content, "cpu.usage")
}

func TestLoadRejectsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.csv", "0123456789")

	_, err := Load(path, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte cap")

	_, err = Load(path, 10)
	assert.NoError(t, err, "the cap is inclusive")
}

func TestLoadRejectsDirectories(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x")
	writeFile(t, dir, "nested/b.csv", "x")
	writeFile(t, dir, "platform.txt", "x")
	writeFile(t, dir, "ignored.log", "x")

	paths, err := Discover(dir, []string{"**/*.csv", "**/*.txt"})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.ElementsMatch(t, []string{"a.csv", "b.csv", "platform.txt"}, names)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "x")
	b := writeFile(t, dir, "nested/b.csv", "x")
	writeFile(t, dir, "ignored.log", "x")
	other := writeFile(t, t.TempDir(), "other.csv", "x")

	paths, err := ExpandPaths([]string{dir, other}, []string{"**/*.csv"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b, other}, paths)
}

func TestExpandPathsDeduplicatesAndKeepsMissing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "x")

	// The file surfaces once even when named directly and via its directory,
	// and a missing path passes through for Load to report.
	paths, err := ExpandPaths([]string{a, dir, "nope.csv"}, []string{"**/*.csv"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, "nope.csv"}, paths)
}

func TestDiscoverDeduplicatesOverlappingPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x")

	paths, err := Discover(dir, []string{"**/*.csv", "a.csv"})
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
