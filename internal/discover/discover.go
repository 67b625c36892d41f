// Package discover walks a workspace to find candidate Go source files for
// mutation, applying exclusion globs and skipping test files and hidden
// directories. Grounded on internal/world/fs.go's Scanner (bounded-
// concurrency filepath.Walk with a hidden-directory allowlist), generalized
// from its full-repo multi-language scan to gremlins' Go-only source
// discovery.
package discover

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// hiddenDirAllowlist mirrors world/fs.go's allowlist: most dot-directories
// are skipped outright, a few configuration directories are traversed.
var hiddenDirAllowlist = map[string]bool{
	".github":   true,
	".vscode":   true,
	".circleci": true,
	".git":      false,
	".gremlins": false,
}

// Discoverer finds .go source files under a set of roots.
type Discoverer struct {
	// Excludes are glob patterns (matched against the path relative to the
	// root that contains it, and against the file's base name) that remove a
	// file from consideration.
	Excludes []string
}

// New returns a Discoverer with the given exclusion globs.
func New(excludes []string) *Discoverer {
	return &Discoverer{Excludes: excludes}
}

// Sources walks each root and returns every non-test .go file found,
// sorted for deterministic downstream ordering.
func (d *Discoverer) Sources(ctx context.Context, roots []string) ([]string, error) {
	return d.walk(ctx, roots, false)
}

// Tests walks each root and returns every _test.go file found, sorted.
func (d *Discoverer) Tests(ctx context.Context, roots []string) ([]string, error) {
	return d.walk(ctx, roots, true)
}

func (d *Discoverer) walk(ctx context.Context, roots []string, wantTests bool) ([]string, error) {
	var mu sync.Mutex
	var out []string

	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				return err
			}
			if info.IsDir() {
				return d.handleDir(path, info.Name())
			}
			if filepath.Ext(path) != ".go" {
				return nil
			}
			isTest := strings.HasSuffix(path, "_test.go")
			if isTest != wantTests {
				return nil
			}
			if d.excluded(root, path) {
				return nil
			}
			mu.Lock()
			out = append(out, path)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func (d *Discoverer) handleDir(path, name string) error {
	if name != "." && strings.HasPrefix(name, ".") {
		if allow, known := hiddenDirAllowlist[name]; known {
			if !allow {
				return filepath.SkipDir
			}
			return nil
		}
		return filepath.SkipDir
	}
	return nil
}

func (d *Discoverer) excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, pattern := range d.Excludes {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}
