package instrument

import (
	"go/ast"
	"go/token"

	"github.com/gremlins-go/gremlins/internal/operators"
)

// Finding is one discovered mutation point: the original node plus every
// operator-variant pair that applies to it, in operator-priority order.
// AssignedIDs is populated later, by BuildCatalogue.
type Finding struct {
	Node          ast.Node
	Path          string
	Line          int
	Variants      []operators.Variant
	OperatorNames []string
	AssignedIDs   []string
}

// Finder walks a parsed file in pre-order and records every mutation point,
// per spec.md §4.2's "Finding" subsection.
type Finder struct {
	enabled []operators.Operator
}

// NewFinder builds a finder restricted to the given operator names in
// priority order; passing nil enables every registered operator.
func NewFinder(registry *operators.Registry, enabledOperators []string) *Finder {
	return &Finder{enabled: registry.All(enabledOperators)}
}

// Find returns every mutation point in file, in pre-order discovery order.
// A node that multiple operators match yields one Finding carrying all of
// their variants, concatenated in operator-priority order (spec.md §4.2:
// "a given node may yield mutations from multiple operators").
func (f *Finder) Find(fset *token.FileSet, path string, file *ast.File) []*Finding {
	var findings []*Finding
	returnTypes := collectReturnTypes(file)

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return false
		}

		var variants []operators.Variant
		var opNames []string
		for _, op := range f.enabled {
			if !op.CanMutate(n) {
				continue
			}
			var produced []operators.Variant
			if typed, ok := op.(operators.TypeAwareOperator); ok {
				produced = typed.MutateTyped(n, returnTypes[n])
			} else {
				produced = op.Mutate(n)
			}
			for _, v := range produced {
				variants = append(variants, v)
				opNames = append(opNames, op.Name())
			}
		}

		if len(variants) > 0 {
			findings = append(findings, &Finding{
				Node:          n,
				Path:          path,
				Line:          fset.Position(n.Pos()).Line,
				Variants:      variants,
				OperatorNames: opNames,
			})
		}
		return true
	})

	return findings
}

// collectReturnTypes maps every single-result ast.ReturnStmt in file to the
// declared return type expression of its immediately enclosing function
// (*ast.FuncDecl or *ast.FuncLit). A return statement whose enclosing
// function returns zero or more than one value is omitted, since no single
// replacement expression can be both type-correct and arity-correct there.
func collectReturnTypes(file *ast.File) map[ast.Node]ast.Expr {
	m := make(map[ast.Node]ast.Expr)

	var walk func(body *ast.BlockStmt, ft *ast.FuncType)
	walk = func(body *ast.BlockStmt, ft *ast.FuncType) {
		if body == nil {
			return
		}

		var returnType ast.Expr
		if ft.Results != nil && len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) <= 1 {
			returnType = ft.Results.List[0].Type
		}

		ast.Inspect(body, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.FuncLit:
				walk(x.Body, x.Type)
				return false
			case *ast.ReturnStmt:
				if len(x.Results) == 1 && returnType != nil {
					m[x] = returnType
				}
			}
			return true
		})
	}

	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			walk(fn.Body, fn.Type)
		}
	}
	return m
}
