package symtab

import (
	"testing"
)

func TestTable_ScopesShadowAndPop(t *testing.T) {
	tab := New[string]()
	tab.EnterScope()
	tab.Add("x", "int")
	tab.EnterScope()
	tab.Add("x", "boolean")

	if v, _ := tab.Lookup("x"); v != "boolean" {
		t.Fatalf("expected innermost binding, got %q", v)
	}
	if v, _ := tab.PeekAt("x", 0); v != "int" {
		t.Fatalf("expected level-0 binding, got %q", v)
	}
	if tab.ScopeLevel() != 2 {
		t.Fatalf("expected 2 open scopes, got %d", tab.ScopeLevel())
	}

	tab.ExitScope()
	if v, _ := tab.Lookup("x"); v != "int" {
		t.Fatalf("expected outer binding after exit, got %q", v)
	}
	if _, ok := tab.Peek("y"); ok {
		t.Fatal("unexpected binding for y")
	}
}

func TestTable_LookupFallsThroughToParent(t *testing.T) {
	parent := New[string]()
	parent.EnterScope()
	parent.Add("message", "String")

	child := New[string]()
	child.EnterScope()
	child.Add("count", "int")
	child.SetParent(parent)

	if v, ok := child.Lookup("message"); !ok || v != "String" {
		t.Fatalf("expected inherited binding, got %q %v", v, ok)
	}
	if _, ok := child.PeekAt("message", 0); ok {
		t.Fatal("PeekAt must not consult the parent table")
	}
	if child.Size() != 2 {
		t.Fatalf("expected size 2 through the chain, got %d", child.Size())
	}
	if child.Parent() != parent {
		t.Fatal("expected parent link")
	}
}

func TestTable_DeepChainIsIterative(t *testing.T) {
	root := New[int]()
	root.EnterScope()
	root.Add("depth", 0)

	cur := root
	for i := 0; i < 10000; i++ {
		next := New[int]()
		next.EnterScope()
		next.SetParent(cur)
		cur = next
	}
	if v, ok := cur.Lookup("depth"); !ok || v != 0 {
		t.Fatalf("expected lookup through 10000 ancestors, got %d %v", v, ok)
	}
}

func TestTable_SetAndPeekOutOfRange(t *testing.T) {
	tab := New[string]()
	if _, ok := tab.Peek("x"); ok {
		t.Fatal("peek on an empty table must miss")
	}
	tab.EnterScope()
	tab.Add("x", "int")
	if !tab.Set("x", "int@0", 0) {
		t.Fatal("expected Set to replace the binding")
	}
	if tab.Set("y", "int", 0) || tab.Set("x", "int", 3) {
		t.Fatal("Set must refuse unknown names and closed levels")
	}
	if v, _ := tab.PeekAt("x", 0); v != "int@0" {
		t.Fatalf("unexpected binding %q", v)
	}
	if names := tab.Names(0); len(names) != 1 || names[0] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestTable_ExitScopeWithoutScopePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New[string]().ExitScope()
}
