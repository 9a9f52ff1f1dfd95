package semant

import (
	"semant/internal/engine/ast"
	"semant/internal/engine/hierarchy"
)

// Compatible reports whether a value of type actual may be stored where
// declared is expected: the types are equal, actual is null and declared is
// a reference type, or declared is a proper ancestor of actual.
//
// Array types are compared by name only, so A[] accepts A[] and nothing else.
func Compatible(reg *hierarchy.Registry, declared, actual string) bool {
	if declared == actual {
		return true
	}
	if ast.IsPrimitive(declared) {
		return false
	}
	if actual == ast.TypeNull {
		return true
	}

	n, ok := reg.Get(actual)
	if !ok {
		return false
	}
	// Bounded so an unverified cycle cannot loop forever.
	for steps := 0; steps < reg.Len(); steps++ {
		parent := reg.ParentOf(n)
		if parent == nil {
			return false
		}
		if parent.Name == declared {
			return true
		}
		n = parent
	}
	return false
}
