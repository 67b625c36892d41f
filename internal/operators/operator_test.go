package operators

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseExpr parses src as a standalone expression statement inside a
// throwaway function body and returns its single top-level expression.
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	full := "package p\nfunc f() { _ = " + src + " }\n"
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", full, 0)
	require.NoError(t, err)

	fn := file.Decls[0].(*ast.FuncDecl)
	assign := fn.Body.List[0].(*ast.AssignStmt)
	return assign.Rhs[0]
}

// parseReturn parses src as the sole statement of a function declared to
// return returnType, and returns both the statement and the function's
// return type expression (nil for returnType == "").
func parseReturn(t *testing.T, returnType, src string) (*ast.ReturnStmt, ast.Expr) {
	t.Helper()
	full := "package p\nfunc f() " + returnType + " { " + src + " }\n"
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", full, 0)
	require.NoError(t, err)

	fn := file.Decls[0].(*ast.FuncDecl)
	rs := fn.Body.List[0].(*ast.ReturnStmt)
	var rt ast.Expr
	if fn.Type.Results != nil {
		rt = fn.Type.Results.List[0].Type
	}
	return rs, rt
}

func TestComparisonOperator(t *testing.T) {
	node := parseExpr(t, "age >= 18")
	op := ComparisonOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 2)

	var ops []token.Token
	for _, v := range variants {
		ops = append(ops, v.Node.(*ast.BinaryExpr).Op)
	}
	assert.Contains(t, ops, token.GTR)
	assert.Contains(t, ops, token.LSS)
}

func TestComparisonOperatorIgnoresArithmetic(t *testing.T) {
	node := parseExpr(t, "a + b")
	op := ComparisonOperator{}
	assert.False(t, op.CanMutate(node))
}

func TestArithmeticOperator(t *testing.T) {
	node := parseExpr(t, "a + b")
	op := ArithmeticOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 1)
	assert.Equal(t, token.SUB, variants[0].Node.(*ast.BinaryExpr).Op)
}

func TestBooleanOperatorConnective(t *testing.T) {
	node := parseExpr(t, "a && b")
	op := BooleanOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 1)
	assert.Equal(t, token.LOR, variants[0].Node.(*ast.BinaryExpr).Op)
}

func TestBooleanOperatorNegation(t *testing.T) {
	node := parseExpr(t, "!ok")
	op := BooleanOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 1)
	ident, ok := variants[0].Node.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "ok", ident.Name)
}

func TestBooleanOperatorLiteral(t *testing.T) {
	node := parseExpr(t, "true")
	op := BooleanOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 1)
	assert.Equal(t, "false", variants[0].Node.(*ast.Ident).Name)
}

func TestBoundaryOperator(t *testing.T) {
	node := parseExpr(t, "age >= 18")
	op := BoundaryOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.Mutate(node)
	require.Len(t, variants, 2)

	var values []string
	for _, v := range variants {
		be := v.Node.(*ast.BinaryExpr)
		values = append(values, be.Y.(*ast.BasicLit).Value)
	}
	assert.Contains(t, values, "17")
	assert.Contains(t, values, "19")
}

func TestBoundaryOperatorIgnoresNonComparison(t *testing.T) {
	node := parseExpr(t, "18")
	op := BoundaryOperator{}
	assert.False(t, op.CanMutate(node))
}

func TestReturnOperatorIntZeroValue(t *testing.T) {
	node, returnType := parseReturn(t, "int", "return x")
	op := ReturnOperator{}

	require.True(t, op.CanMutate(node))
	variants := op.MutateTyped(node, returnType)
	require.Len(t, variants, 1)
	rs := variants[0].Node.(*ast.ReturnStmt)
	lit := rs.Results[0].(*ast.BasicLit)
	assert.Equal(t, token.INT, lit.Kind)
	assert.Equal(t, "0", lit.Value)
}

func TestReturnOperatorStringZeroValue(t *testing.T) {
	node, returnType := parseReturn(t, "string", "return x")
	op := ReturnOperator{}

	variants := op.MutateTyped(node, returnType)
	require.Len(t, variants, 1)
	lit := variants[0].Node.(*ast.ReturnStmt).Results[0].(*ast.BasicLit)
	assert.Equal(t, token.STRING, lit.Kind)
	assert.Equal(t, `""`, lit.Value)
}

func TestReturnOperatorPointerReturnsNil(t *testing.T) {
	node, returnType := parseReturn(t, "*Thing", "return x")
	op := ReturnOperator{}

	variants := op.MutateTyped(node, returnType)
	require.Len(t, variants, 1)
	ident := variants[0].Node.(*ast.ReturnStmt).Results[0].(*ast.Ident)
	assert.Equal(t, "nil", ident.Name)
}

func TestReturnOperatorStructZeroValue(t *testing.T) {
	node, returnType := parseReturn(t, "Thing", "return x")
	op := ReturnOperator{}

	variants := op.MutateTyped(node, returnType)
	require.Len(t, variants, 1)
	lit := variants[0].Node.(*ast.ReturnStmt).Results[0].(*ast.CompositeLit)
	assert.Equal(t, "Thing", lit.Type.(*ast.Ident).Name)
}

func TestReturnOperatorUnknownTypeSkipsZeroValue(t *testing.T) {
	node, _ := parseReturn(t, "int", "return x")
	op := ReturnOperator{}

	assert.Empty(t, op.MutateTyped(node, nil))
	assert.Empty(t, op.Mutate(node))
}

func TestReturnOperatorBoolLiteral(t *testing.T) {
	node, returnType := parseReturn(t, "bool", "return true")
	op := ReturnOperator{}

	variants := op.MutateTyped(node, returnType)
	require.Len(t, variants, 1)
	assert.Equal(t, "false", variants[0].Node.(*ast.ReturnStmt).Results[0].(*ast.Ident).Name)
}

func TestRegistryOrdersByPriority(t *testing.T) {
	r := NewRegistry()
	ops := r.All([]string{"arithmetic", "comparison", "return"})
	require.Len(t, ops, 3)
	assert.Equal(t, "comparison", ops[0].Name())
	assert.Equal(t, "return", ops[1].Name())
	assert.Equal(t, "arithmetic", ops[2].Name())
}

func TestRegistryUnknownOperator(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	assert.Error(t, err)
}

func TestRegistryAvailableListsAllFive(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.Available(), 5)
}
