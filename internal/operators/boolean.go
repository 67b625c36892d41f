package operators

import (
	"go/ast"
	"go/token"
)

// BooleanOperator mutates logical connectives, negation, and boolean
// literals: and<->or, "not x" -> x, true<->false.
type BooleanOperator struct{}

func (BooleanOperator) Name() string { return "boolean" }

func (BooleanOperator) Description() string {
	return "Swap boolean connectives, drop negation, flip boolean literals"
}

func (BooleanOperator) CanMutate(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.BinaryExpr:
		return n.Op == token.LAND || n.Op == token.LOR
	case *ast.UnaryExpr:
		return n.Op == token.NOT
	case *ast.Ident:
		return n.Name == "true" || n.Name == "false"
	}
	return false
}

func (BooleanOperator) Mutate(node ast.Node) []Variant {
	switch n := node.(type) {
	case *ast.BinaryExpr:
		return mutateBoolOp(n)
	case *ast.UnaryExpr:
		return mutateNegation(n)
	case *ast.Ident:
		return mutateBoolLiteral(n)
	}
	return nil
}

func mutateBoolOp(n *ast.BinaryExpr) []Variant {
	clone := *n
	var desc string
	switch n.Op {
	case token.LAND:
		clone.Op = token.LOR
		desc = "&& to ||"
	case token.LOR:
		clone.Op = token.LAND
		desc = "|| to &&"
	default:
		return nil
	}
	return []Variant{{Node: &clone, Description: desc}}
}

func mutateNegation(n *ast.UnaryExpr) []Variant {
	// "not x" -> x: the replacement is the operand itself, unwrapped.
	return []Variant{{Node: n.X, Description: "remove negation"}}
}

func mutateBoolLiteral(n *ast.Ident) []Variant {
	var flipped string
	switch n.Name {
	case "true":
		flipped = "false"
	case "false":
		flipped = "true"
	default:
		return nil
	}
	clone := *n
	clone.Name = flipped
	return []Variant{{Node: &clone, Description: n.Name + " to " + flipped}}
}
