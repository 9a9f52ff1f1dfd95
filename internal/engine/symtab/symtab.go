// Package symtab implements the scoped symbol tables owned by each class.
//
// A Table is a stack of scopes. Scope 0 holds the class members; the checker
// pushes method, block and loop scopes above it while it walks a body.
// Lookups that miss every open scope continue into the parent class's table.
package symtab

import "fmt"

type Table[V any] struct {
	scopes []map[string]V
	parent *Table[V]
}

func New[V any]() *Table[V] {
	return &Table[V]{}
}

func (t *Table[V]) EnterScope() {
	t.scopes = append(t.scopes, make(map[string]V))
}

// ExitScope pops the innermost scope. Popping with no open scope is a
// programming error and panics.
func (t *Table[V]) ExitScope() {
	if len(t.scopes) == 0 {
		panic("symtab: ExitScope with no open scope")
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Add binds name in the innermost scope, replacing a binding already made
// in that scope. Callers check for duplicates with Peek first.
func (t *Table[V]) Add(name string, v V) {
	if len(t.scopes) == 0 {
		panic("symtab: Add with no open scope")
	}
	t.scopes[len(t.scopes)-1][name] = v
}

// Set replaces the binding of name at an explicit scope level. It reports
// false when the level is not open or name is not bound there.
func (t *Table[V]) Set(name string, v V, level int) bool {
	if level < 0 || level >= len(t.scopes) {
		return false
	}
	if _, ok := t.scopes[level][name]; !ok {
		return false
	}
	t.scopes[level][name] = v
	return true
}

// Peek searches the innermost scope only.
func (t *Table[V]) Peek(name string) (V, bool) {
	return t.PeekAt(name, len(t.scopes)-1)
}

// PeekAt searches a single scope level; level 0 is the class-member scope.
func (t *Table[V]) PeekAt(name string, level int) (V, bool) {
	var zero V
	if level < 0 || level >= len(t.scopes) {
		return zero, false
	}
	v, ok := t.scopes[level][name]
	return v, ok
}

// Lookup searches every open scope innermost first, then each ancestor
// table in turn.
func (t *Table[V]) Lookup(name string) (V, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		for i := len(cur.scopes) - 1; i >= 0; i-- {
			if v, ok := cur.scopes[i][name]; ok {
				return v, true
			}
		}
	}
	var zero V
	return zero, false
}

func (t *Table[V]) SetParent(parent *Table[V]) {
	t.parent = parent
}

func (t *Table[V]) Parent() *Table[V] {
	return t.parent
}

// ScopeLevel is the number of open scopes. The innermost scope is at level
// ScopeLevel()-1.
func (t *Table[V]) ScopeLevel() int {
	return len(t.scopes)
}

// Size counts the bindings visible through this table and its ancestors,
// shadowed ones included. A backend uses it to number field slots.
func (t *Table[V]) Size() int {
	n := 0
	for cur := t; cur != nil; cur = cur.parent {
		for _, scope := range cur.scopes {
			n += len(scope)
		}
	}
	return n
}

// Names returns the bindings of one scope level in unspecified order.
func (t *Table[V]) Names(level int) []string {
	if level < 0 || level >= len(t.scopes) {
		return nil
	}
	out := make([]string, 0, len(t.scopes[level]))
	for name := range t.scopes[level] {
		out = append(out, name)
	}
	return out
}

func (t *Table[V]) String() string {
	return fmt.Sprintf("symtab(levels=%d, size=%d)", len(t.scopes), t.Size())
}
