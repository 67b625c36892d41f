package instrument

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectReturnTypesResolvesSingleResultFunc(t *testing.T) {
	src := `package p

func f(x int) int {
	return x
}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, 0)
	require.NoError(t, err)

	fn := file.Decls[0].(*ast.FuncDecl)
	rs := fn.Body.List[0].(*ast.ReturnStmt)

	types := collectReturnTypes(file)
	ident, ok := types[rs].(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "int", ident.Name)
}

func TestCollectReturnTypesSkipsMultiResultFunc(t *testing.T) {
	src := `package p

func f(x int) (int, error) {
	return x, nil
}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, 0)
	require.NoError(t, err)

	fn := file.Decls[0].(*ast.FuncDecl)
	rs := fn.Body.List[0].(*ast.ReturnStmt)

	types := collectReturnTypes(file)
	_, ok := types[rs]
	assert.False(t, ok)
}

func TestCollectReturnTypesUsesNearestEnclosingFuncLit(t *testing.T) {
	src := `package p

func outer() string {
	inner := func() bool {
		return true
	}
	_ = inner
	return "x"
}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, 0)
	require.NoError(t, err)

	fn := file.Decls[0].(*ast.FuncDecl)
	var litReturn, outerReturn *ast.ReturnStmt
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if lit, ok := n.(*ast.FuncLit); ok {
			litReturn = lit.Body.List[0].(*ast.ReturnStmt)
			return false
		}
		if rs, ok := n.(*ast.ReturnStmt); ok {
			outerReturn = rs
		}
		return true
	})
	require.NotNil(t, litReturn)
	require.NotNil(t, outerReturn)

	types := collectReturnTypes(file)
	assert.Equal(t, "bool", types[litReturn].(*ast.Ident).Name)
	assert.Equal(t, "string", types[outerReturn].(*ast.Ident).Name)
}
