// Package hashing computes the deterministic content hashes the cache keys
// on. Grounded on internal/store/migrations.go's use of crypto/sha256 for
// schema fingerprinting and internal/world/fs.go's calculateHash.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
)

const testFileSeparator = 0x00

// HashBytes returns the hex SHA-256 digest of b after normalizing line
// endings (CRLF -> LF), matching spec.md §4.4.
func HashBytes(b []byte) string {
	normalized := bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:])
}

// HashFile reads path and returns its content hash.
func HashFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashing: read %s: %w", path, err)
	}
	return HashBytes(b), nil
}

// HashFiles hashes each file, returning a path->hash map plus a warning
// string for every file that couldn't be read. Per spec.md §7's failure
// taxonomy, "source not found/unreadable" is a warn-and-skip-that-file
// failure, not one that aborts the batch — the same policy
// internal/instrument already applies to the same class of read error.
func HashFiles(paths []string) (map[string]string, []string) {
	out := make(map[string]string, len(paths))
	var warnings []string
	for _, p := range paths {
		h, err := HashFile(p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: unreadable, skipping: %v", p, err))
			continue
		}
		out[p] = h
	}
	return out, warnings
}

// Combine re-hashes a set of sub-hashes joined by a single-byte separator,
// used to build the covering-test composite hash. Inputs are sorted first so
// the result is independent of caller-provided order.
func Combine(subHashes []string) string {
	sorted := append([]string(nil), subHashes...)
	sort.Strings(sorted)

	h := sha256.New()
	for i, s := range sorted {
		if i > 0 {
			h.Write([]byte{testFileSeparator})
		}
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CombinedTestHash hashes the sorted set of test files backing a gremlin's
// selected tests. Returns the sentinel "no_tests" hash when tests is empty,
// matching the Python original's behaviour for an uncovered gremlin.
func CombinedTestHash(testFileHashes map[string]string, testFiles []string) string {
	if len(testFiles) == 0 {
		return HashBytes([]byte("no_tests"))
	}
	hashes := make([]string, 0, len(testFiles))
	seen := make(map[string]struct{}, len(testFiles))
	for _, f := range testFiles {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		if h, ok := testFileHashes[f]; ok {
			hashes = append(hashes, h)
		}
	}
	return Combine(hashes)
}
