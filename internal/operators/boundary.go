package operators

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
)

// BoundaryOperator mutates integer literals appearing directly inside a
// comparison by shifting them +/-1, catching off-by-one boundary errors.
// Grounded on operators/boundary.py; ported onto go/ast.BasicLit with
// token.INT nested in a comparison go/ast.BinaryExpr.
type BoundaryOperator struct{}

func (BoundaryOperator) Name() string { return "boundary" }

func (BoundaryOperator) Description() string {
	return "Shift integer constants in comparisons by +/-1"
}

func (BoundaryOperator) CanMutate(node ast.Node) bool {
	be, ok := node.(*ast.BinaryExpr)
	if !ok || !isComparisonToken(be.Op) {
		return false
	}
	return intLiteral(be.X) != nil || intLiteral(be.Y) != nil
}

func (BoundaryOperator) Mutate(node ast.Node) []Variant {
	be, ok := node.(*ast.BinaryExpr)
	if !ok || !isComparisonToken(be.Op) {
		return nil
	}

	var variants []Variant
	if lit := intLiteral(be.X); lit != nil {
		val, _ := strconv.Atoi(lit.Value)
		for _, delta := range []int{-1, 1} {
			clone := *be
			litClone := *lit
			litClone.Value = strconv.Itoa(val + delta)
			clone.X = &litClone
			variants = append(variants, Variant{
				Node:        &clone,
				Description: fmt.Sprintf("constant %d to %d", val, val+delta),
			})
		}
	}
	if lit := intLiteral(be.Y); lit != nil {
		val, _ := strconv.Atoi(lit.Value)
		for _, delta := range []int{-1, 1} {
			clone := *be
			litClone := *lit
			litClone.Value = strconv.Itoa(val + delta)
			clone.Y = &litClone
			variants = append(variants, Variant{
				Node:        &clone,
				Description: fmt.Sprintf("constant %d to %d", val, val+delta),
			})
		}
	}
	return variants
}

func isComparisonToken(t token.Token) bool {
	switch t {
	case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
		return true
	}
	return false
}

func intLiteral(e ast.Expr) *ast.BasicLit {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return nil
	}
	return lit
}
