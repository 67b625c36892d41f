// Package instrument implements the finder, instrumenter, and mutation
// catalogue builder (spec.md §4.2, §4.3): it parses Go source, locates
// mutation points via internal/operators, assigns stable gremlin ids, and
// rewrites each source into an instrumented variant gated on the
// internal/instrument/gremlinrt runtime. Grounded on internal/world/
// go_parser.go's go/parser.ParseFile + token.FileSet usage.
package instrument

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"

	"github.com/gremlins-go/gremlins/internal/operators"
)

// Module is one source file's parse + find + instrument result.
type Module struct {
	Path     string
	Findings []*Finding
	Source   []byte // instrumented source, ready to write to scratch dir
}

// Instrumenter drives parse -> find -> instrument -> print across a set of
// Go source files, producing a single ordered Catalogue (spec.md §4.3).
type Instrumenter struct {
	registry *operators.Registry
	finder   *Finder
	Warnings []string
}

// New builds an Instrumenter restricted to enabledOperators (nil = all).
func New(registry *operators.Registry, enabledOperators []string) *Instrumenter {
	return &Instrumenter{
		registry: registry,
		finder:   NewFinder(registry, enabledOperators),
	}
}

// Run instruments every path in paths (sorted, for determinism) and returns
// the modules plus the combined catalogue. A parse failure on one file
// excludes it with a recorded warning rather than aborting the run
// (spec.md §4.2 "Failure semantics").
func (in *Instrumenter) Run(paths []string) ([]*Module, *Catalogue, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var allFindings []*Finding
	var modules []*Module

	fset := token.NewFileSet()
	parsed := make(map[string]*ast.File, len(sorted))

	for _, path := range sorted {
		src, err := os.ReadFile(path)
		if err != nil {
			in.warn(fmt.Sprintf("%s: unreadable: %v", path, err))
			continue
		}
		file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			in.warn(fmt.Sprintf("%s: parse error: %v", path, err))
			continue
		}
		parsed[path] = file

		findings := in.finder.Find(fset, path, file)
		allFindings = append(allFindings, findings...)
	}

	catalogue := BuildCatalogue(allFindings)

	findingsByPath := make(map[string][]*Finding)
	for _, f := range allFindings {
		findingsByPath[f.Path] = append(findingsByPath[f.Path], f)
	}

	for _, path := range sorted {
		file, ok := parsed[path]
		if !ok {
			continue
		}
		instrumented := Instrument(fset, file, findingsByPath[path])

		var buf bytes.Buffer
		if err := format.Node(&buf, fset, instrumented); err != nil {
			in.warn(fmt.Sprintf("%s: print error: %v", path, err))
			continue
		}

		modules = append(modules, &Module{
			Path:     path,
			Findings: findingsByPath[path],
			Source:   buf.Bytes(),
		})
	}

	return modules, catalogue, nil
}

func (in *Instrumenter) warn(msg string) {
	in.Warnings = append(in.Warnings, msg)
}

// WriteScratch writes every module's instrumented source under scratchDir,
// mirroring the original relative path beneath root. This is the
// "instrumented/" scratch directory from spec.md §6, safe to delete between
// runs.
func WriteScratch(scratchDir, root string, modules []*Module) error {
	for _, m := range modules {
		rel, err := filepath.Rel(root, m.Path)
		if err != nil {
			rel = filepath.Base(m.Path)
		}
		dest := filepath.Join(scratchDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("instrument: mkdir %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, m.Source, 0o644); err != nil {
			return fmt.Errorf("instrument: write %s: %w", dest, err)
		}
	}
	return nil
}
