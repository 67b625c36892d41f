// Package operators implements the capability protocol gremlins are built
// from, plus the required built-in operators: comparison, arithmetic,
// boolean, boundary, return. Grounded on
// _examples/original_source/src/pytest_gremlins/operators/*.py, ported onto
// go/ast nodes instead of Python's ast module.
package operators

import "go/ast"

// Variant is one alternate node an Operator proposes for a given node, plus
// the human-readable description that becomes the Gremlin's description.
type Variant struct {
	Node        ast.Node
	Description string
}

// Operator is the four-method mutation capability contract from spec.md
// §4.1. Implementations must be deterministic and must not mutate the input
// node in place.
type Operator interface {
	// Name is the stable short identifier used in config and reports.
	Name() string

	// Description is a human-readable summary of what this operator does.
	Description() string

	// CanMutate reports whether this operator applies to node. Must be O(1).
	CanMutate(node ast.Node) bool

	// Mutate returns the ordered, deterministic list of alternate nodes for
	// node. Each variant is a distinct deep copy; node itself is untouched.
	Mutate(node ast.Node) []Variant
}

// Priority is the fixed operator evaluation order from spec.md §4.1/§4.2:
// it determines tie-breaking when two operators match the same node and
// therefore determines gremlin id assignment order.
var Priority = []string{"comparison", "boundary", "boolean", "return", "arithmetic"}

// TypeAwareOperator is implemented by operators whose variants depend on
// more than the matched node itself, e.g. ReturnOperator, which cannot
// build a compilable variant without knowing the enclosing function's
// return type. The finder resolves returnType syntactically from the
// nearest enclosing *ast.FuncDecl/*ast.FuncLit and passes it here instead
// of through CanMutate/Mutate, so the other four operators stay untouched.
type TypeAwareOperator interface {
	Operator

	// MutateTyped is Mutate, given the single return type of the function
	// enclosing node. returnType is nil when that function returns zero or
	// more than one value, or the type could not be resolved syntactically.
	MutateTyped(node ast.Node, returnType ast.Expr) []Variant
}
