package hashing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytesNormalizesLineEndings(t *testing.T) {
	crlf := []byte("package a\r\nfunc b() {}\r\n")
	lf := []byte("package a\nfunc b() {}\n")
	assert.Equal(t, HashBytes(lf), HashBytes(crlf))
}

func TestHashBytesDeterministic(t *testing.T) {
	b := []byte("package main\n")
	assert.Equal(t, HashBytes(b), HashBytes(b))
	assert.Len(t, HashBytes(b), 64)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	h, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte("package a\n")), h)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile("/nonexistent/path.go")
	assert.Error(t, err)
}

func TestHashFilesSkipsUnreadableWithWarning(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(good, []byte("package a\n"), 0o644))
	missing := filepath.Join(dir, "missing.go")

	hashes, warnings := HashFiles([]string{good, missing})

	assert.Contains(t, hashes, good)
	assert.NotContains(t, hashes, missing)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], missing)
}

func TestHashFilesAllReadableHasNoWarnings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	hashes, warnings := HashFiles([]string{path})
	assert.Len(t, hashes, 1)
	assert.Empty(t, warnings)
}

func TestCombineOrderIndependent(t *testing.T) {
	a := Combine([]string{"h1", "h2", "h3"})
	b := Combine([]string{"h3", "h1", "h2"})
	assert.Equal(t, a, b)
}

func TestCombinedTestHashEmptyIsSentinel(t *testing.T) {
	got := CombinedTestHash(map[string]string{}, nil)
	assert.Equal(t, HashBytes([]byte("no_tests")), got)
}

func TestCombinedTestHashStableUnderOrder(t *testing.T) {
	files := map[string]string{
		"a_test.go": "aaa",
		"b_test.go": "bbb",
	}
	h1 := CombinedTestHash(files, []string{"a_test.go", "b_test.go"})
	h2 := CombinedTestHash(files, []string{"b_test.go", "a_test.go"})
	assert.Equal(t, h1, h2)
}
