package operators

import (
	"fmt"
	"go/ast"
	"go/token"
)

// comparisonMutations maps each comparison operator token to its ordered
// list of replacement tokens, per spec.md §4.1's required table.
var comparisonMutations = map[token.Token][]token.Token{
	token.LSS: {token.LEQ, token.GTR},
	token.LEQ: {token.LSS, token.GTR},
	token.GTR: {token.GEQ, token.LSS},
	token.GEQ: {token.GTR, token.LSS},
	token.EQL: {token.NEQ},
	token.NEQ: {token.EQL},
}

var tokenSymbol = map[token.Token]string{
	token.LSS: "<",
	token.LEQ: "<=",
	token.GTR: ">",
	token.GEQ: ">=",
	token.EQL: "==",
	token.NEQ: "!=",
}

// ComparisonOperator mutates comparison operators in *ast.BinaryExpr nodes.
type ComparisonOperator struct{}

func (ComparisonOperator) Name() string { return "comparison" }

func (ComparisonOperator) Description() string {
	return "Replace comparison operators with adjacent/inverted comparisons"
}

func (ComparisonOperator) CanMutate(node ast.Node) bool {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, known := comparisonMutations[be.Op]
	return known
}

func (ComparisonOperator) Mutate(node ast.Node) []Variant {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return nil
	}
	replacements, known := comparisonMutations[be.Op]
	if !known {
		return nil
	}

	variants := make([]Variant, 0, len(replacements))
	for _, rep := range replacements {
		clone := *be
		clone.Op = rep
		variants = append(variants, Variant{
			Node:        &clone,
			Description: fmt.Sprintf("%s to %s", tokenSymbol[be.Op], tokenSymbol[rep]),
		})
	}
	return variants
}
