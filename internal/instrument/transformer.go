package instrument

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// gremlinrtImportPath is the reserved runtime package every instrumented
// file imports. Its package identifier (gremlinrt) is the prefix
// instrumentation-introduced names must not collide with (spec.md §4.2).
const gremlinrtImportPath = "github.com/gremlins-go/gremlins/internal/instrument/gremlinrt"

// Instrument rewrites file in place so that every finding's node becomes a
// dispatch construct gated on gremlinrt.Active, per spec.md §4.2. Expression
// positions become a gremlinrt.Select call; statement positions (currently
// only return) become an if/else cascade. Returns the rewritten file; on a
// single node's build failure that node's mutations are dropped and the
// original node is left untouched (spec.md §4.2 "Failure semantics").
func Instrument(fset *token.FileSet, file *ast.File, findings []*Finding) *ast.File {
	if len(findings) == 0 {
		return file
	}

	byNode := make(map[ast.Node]*Finding, len(findings))
	for _, f := range findings {
		byNode[f.Node] = f
	}

	result := astutil.Apply(file, nil, func(c *astutil.Cursor) bool {
		n := c.Node()
		if n == nil {
			return true
		}
		find, ok := byNode[n]
		if !ok {
			return true
		}

		replacement := buildDispatch(find)
		if replacement == nil {
			// Instrumentation failed for this node: leave it unmutated and
			// drop its mutations rather than aborting the whole file.
			return true
		}
		c.Replace(replacement)
		return true
	}).(*ast.File)

	astutil.AddImport(fset, result, gremlinrtImportPath)
	return result
}

// buildDispatch returns the dispatch node for find, or nil if find.Node's
// grammatical category isn't one this instrumenter knows how to rewrite.
func buildDispatch(find *Finding) ast.Node {
	switch find.Node.(type) {
	case ast.Expr:
		return buildExprDispatch(find)
	case *ast.ReturnStmt:
		return buildReturnDispatch(find)
	default:
		return nil
	}
}

// buildExprDispatch builds gremlinrt.Select([]string{ids...}, original, variants...).
func buildExprDispatch(find *Finding) ast.Node {
	original, ok := find.Node.(ast.Expr)
	if !ok {
		return nil
	}

	idsLit := &ast.CompositeLit{
		Type: &ast.ArrayType{Elt: ast.NewIdent("string")},
	}
	args := []ast.Expr{idsLit, original}
	for i, v := range find.Variants {
		variantExpr, ok := v.Node.(ast.Expr)
		if !ok {
			continue
		}
		idsLit.Elts = append(idsLit.Elts, stringLit(find.AssignedIDs[i]))
		args = append(args, variantExpr)
	}
	if len(idsLit.Elts) == 0 {
		return nil
	}

	return &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X:   ast.NewIdent("gremlinrt"),
			Sel: ast.NewIdent("Select"),
		},
		Args: args,
	}
}

// buildReturnDispatch builds a cascade:
//
//	if gremlinrt.Active == "g010" {
//	    return nil
//	} else if gremlinrt.Active == "g011" {
//	    return false
//	} else {
//	    <original return statement>
//	}
func buildReturnDispatch(find *Finding) ast.Node {
	original, ok := find.Node.(*ast.ReturnStmt)
	if !ok {
		return nil
	}

	var chain ast.Stmt = original
	for i := len(find.Variants) - 1; i >= 0; i-- {
		variantStmt, ok := find.Variants[i].Node.(ast.Stmt)
		if !ok {
			if variantExpr, okExpr := find.Variants[i].Node.(ast.Expr); okExpr {
				variantStmt = &ast.ReturnStmt{Results: []ast.Expr{variantExpr}}
			} else {
				continue
			}
		}
		chain = &ast.IfStmt{
			Cond: &ast.BinaryExpr{
				X:  &ast.SelectorExpr{X: ast.NewIdent("gremlinrt"), Sel: ast.NewIdent("Active")},
				Op: token.EQL,
				Y:  stringLit(find.AssignedIDs[i]),
			},
			Body: &ast.BlockStmt{List: []ast.Stmt{variantStmt}},
			Else: &ast.BlockStmt{List: []ast.Stmt{chain}},
		}
	}
	return chain
}

func stringLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: `"` + s + `"`}
}
