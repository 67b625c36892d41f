package operators

import (
	"fmt"
	"go/ast"
	"go/token"
)

// arithmeticMutations maps each binary arithmetic token to its single
// replacement, per spec.md §4.1: +↔-, ×↔÷, ⌊÷⌋→÷, mod→⌊÷⌋, **→×.
// Go has no floor-division or power operator distinct from QUO and a
// library call respectively, so FloorDiv and Pow are not applicable; QUO
// (/) stands in for both integer and float division.
var arithmeticMutations = map[token.Token]token.Token{
	token.ADD: token.SUB,
	token.SUB: token.ADD,
	token.MUL: token.QUO,
	token.QUO: token.MUL,
	token.REM: token.QUO,
}

var arithmeticSymbol = map[token.Token]string{
	token.ADD: "+",
	token.SUB: "-",
	token.MUL: "*",
	token.QUO: "/",
	token.REM: "%",
}

// ArithmeticOperator mutates binary arithmetic operators.
type ArithmeticOperator struct{}

func (ArithmeticOperator) Name() string { return "arithmetic" }

func (ArithmeticOperator) Description() string {
	return "Replace arithmetic operators with a semantically adjacent operator"
}

func (ArithmeticOperator) CanMutate(node ast.Node) bool {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, known := arithmeticMutations[be.Op]
	return known
}

func (ArithmeticOperator) Mutate(node ast.Node) []Variant {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return nil
	}
	rep, known := arithmeticMutations[be.Op]
	if !known {
		return nil
	}
	clone := *be
	clone.Op = rep
	return []Variant{{
		Node:        &clone,
		Description: fmt.Sprintf("%s to %s", arithmeticSymbol[be.Op], arithmeticSymbol[rep]),
	}}
}
