package operators

import "fmt"

// Registry is the central lookup table of available operators, grounded on
// operators/registry.py's OperatorRegistry.
type Registry struct {
	operators map[string]Operator
}

// NewRegistry returns a registry pre-populated with the five required
// built-in operators.
func NewRegistry() *Registry {
	r := &Registry{operators: make(map[string]Operator)}
	r.Register(ComparisonOperator{})
	r.Register(BoundaryOperator{})
	r.Register(BooleanOperator{})
	r.Register(ReturnOperator{})
	r.Register(ArithmeticOperator{})
	return r
}

// Register adds or replaces an operator under its own Name().
func (r *Registry) Register(op Operator) {
	r.operators[op.Name()] = op
}

// Get returns the operator registered under name.
func (r *Registry) Get(name string) (Operator, error) {
	op, ok := r.operators[name]
	if !ok {
		return nil, fmt.Errorf("operators: unknown operator %q", name)
	}
	return op, nil
}

// All returns operator instances in Priority order, optionally filtered to
// the given enabled set (nil means all registered operators).
func (r *Registry) All(enabled []string) []Operator {
	names := enabled
	if names == nil {
		names = Priority
	}

	byPriority := make([]string, 0, len(Priority))
	enabledSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		enabledSet[n] = struct{}{}
	}
	for _, p := range Priority {
		if _, ok := enabledSet[p]; ok {
			byPriority = append(byPriority, p)
		}
	}

	out := make([]Operator, 0, len(byPriority))
	for _, name := range byPriority {
		if op, ok := r.operators[name]; ok {
			out = append(out, op)
		}
	}
	return out
}

// Available lists every registered operator name.
func (r *Registry) Available() []string {
	out := make([]string, 0, len(r.operators))
	for name := range r.operators {
		out = append(out, name)
	}
	return out
}
