// Package gremlinrt is the tiny runtime every instrumented module imports.
// It owns the activation key (spec.md §5's "process-scoped read-only
// slot") and the dispatch primitive mutation points compile down to. The
// package name is the reserved prefix instrumentation identifiers must not
// collide with (spec.md §4.2).
package gremlinrt

import "os"

// Active is the activation key, read once at process start. Reading it has
// no observable side effect once cached, satisfying spec.md §4.2's
// constraint that the common (empty) production path is free.
var Active = os.Getenv("ACTIVE_GREMLIN")

// Select returns variants[i] when Active equals ids[i], or original when
// Active is empty, unknown, or doesn't match any id in this dispatch. This
// is the expression-level dispatch construct from spec.md §4.2/§9: a
// generic function call standing in for a ternary chain, since Go has none.
func Select[T any](ids []string, original T, variants ...T) T {
	if Active == "" {
		return original
	}
	for i, id := range ids {
		if Active == id && i < len(variants) {
			return variants[i]
		}
	}
	return original
}
