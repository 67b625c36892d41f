package discover

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sort"
)

// TestNames parses every test file in paths and returns the set of
// top-level `func TestXxx(t *testing.T)` names, each mapped to the file that
// declares it. Coverage collection and selected-test runs both operate on
// these names, never on file paths, since `go test -run` matches function
// names.
func TestNames(paths []string) (map[string]string, error) {
	byName := make(map[string]string)
	fset := token.NewFileSet()

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("discover: read %s: %w", path, err)
		}
		file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("discover: parse %s: %w", path, err)
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil {
				continue
			}
			if isTestFunc(fn) {
				byName[fn.Name.Name] = path
			}
		}
	}
	return byName, nil
}

// isTestFunc reports whether fn looks like a standard go test entrypoint:
// exported, named Test<Something>, taking exactly one *testing.T parameter.
func isTestFunc(fn *ast.FuncDecl) bool {
	name := fn.Name.Name
	if len(name) <= 4 || name[:4] != "Test" {
		return false
	}
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
		return false
	}
	star, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return sel.Sel.Name == "T"
}

// SortedNames returns the keys of byName in sorted order, for deterministic
// iteration over test sets.
func SortedNames(byName map[string]string) []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
