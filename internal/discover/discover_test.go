package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSourcesExcludesTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "a_test.go", "package a\n")

	d := New(nil)
	sources, err := d.Sources(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, sources, 1)
	assert.Contains(t, sources[0], "a.go")
}

func TestTestsOnlyReturnsTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "a_test.go", "package a\n")

	d := New(nil)
	tests, err := d.Tests(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, tests, 1)
	assert.Contains(t, tests[0], "a_test.go")
}

func TestSkipsGitDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, ".git/objects/b.go", "package b\n")

	d := New(nil)
	sources, err := d.Sources(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestExcludesGlobPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "vendor/v.go", "package v\n")

	d := New([]string{"vendor/*"})
	sources, err := d.Sources(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}
