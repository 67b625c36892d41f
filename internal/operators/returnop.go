package operators

import (
	"go/ast"
	"go/token"
)

// ReturnOperator mutates return statements: any single-value return gets a
// type-appropriate "zero value" variant, and boolean-literal returns
// additionally get a negated-literal variant. Grounded on
// operators/return_value.py, but the Python original can always substitute
// None because Python is dynamically typed; Go cannot, so this operator
// implements TypeAwareOperator and resolves the enclosing function's return
// type before choosing a replacement that will actually compile.
type ReturnOperator struct{}

func (ReturnOperator) Name() string { return "return" }

func (ReturnOperator) Description() string {
	return "Replace return values with the zero value, or negate boolean literals"
}

func (ReturnOperator) CanMutate(node ast.Node) bool {
	rs, ok := node.(*ast.ReturnStmt)
	if !ok {
		return false
	}
	return len(rs.Results) == 1 && !isNilIdent(rs.Results[0])
}

// Mutate implements Operator for callers with no type context. Without a
// return type, a zero-value variant can't be built safely, so only the
// boolean-negation variant (which never depends on the return type) is
// produced. The finder always calls MutateTyped instead, since ReturnOperator
// also implements TypeAwareOperator.
func (r ReturnOperator) Mutate(node ast.Node) []Variant {
	return r.MutateTyped(node, nil)
}

// MutateTyped is the real implementation: returnType is the enclosing
// function's declared return type, or nil if it couldn't be resolved. A nil
// returnType skips the zero-value variant rather than guessing, since a
// bare "return nil" only compiles for pointer/interface/slice/map/chan/func
// results.
func (ReturnOperator) MutateTyped(node ast.Node, returnType ast.Expr) []Variant {
	rs, ok := node.(*ast.ReturnStmt)
	if !ok || len(rs.Results) != 1 || isNilIdent(rs.Results[0]) {
		return nil
	}

	if ident, ok := rs.Results[0].(*ast.Ident); ok && (ident.Name == "true" || ident.Name == "false") {
		flipped := "false"
		if ident.Name == "false" {
			flipped = "true"
		}
		return []Variant{{
			Node:        &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent(flipped)}},
			Description: "return " + ident.Name + " to " + flipped,
		}}
	}

	zero := zeroValueExpr(returnType)
	if zero == nil {
		return nil
	}
	return []Variant{{
		Node:        &ast.ReturnStmt{Results: []ast.Expr{zero}},
		Description: "return value to zero value",
	}}
}

// zeroValueExpr returns the zero-value expression for the syntactic type t,
// or nil if t is nil or its kind can't be determined well enough to be
// confident the result compiles.
func zeroValueExpr(t ast.Expr) ast.Expr {
	switch typ := t.(type) {
	case nil:
		return nil
	case *ast.StarExpr, *ast.InterfaceType, *ast.FuncType, *ast.MapType, *ast.ChanType:
		return ast.NewIdent("nil")
	case *ast.ArrayType:
		if typ.Len == nil {
			return ast.NewIdent("nil") // slice
		}
		return &ast.CompositeLit{Type: typ} // fixed-size array
	case *ast.Ident:
		switch typ.Name {
		case "string":
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}
		case "bool":
			return ast.NewIdent("false")
		case "error", "any":
			return ast.NewIdent("nil")
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"byte", "rune", "float32", "float64", "complex64", "complex128":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}
		default:
			// A named type we have no further kind information on: most
			// commonly a struct, for which a composite literal is the zero
			// value. A named interface or alias would make this uncompilable;
			// without go/types there's no syntactic way to tell the two apart.
			return &ast.CompositeLit{Type: typ}
		}
	case *ast.SelectorExpr, *ast.StructType:
		return &ast.CompositeLit{Type: typ}
	default:
		return nil
	}
}

func isNilIdent(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "nil"
}
