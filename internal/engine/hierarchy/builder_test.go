package hierarchy

import (
	"testing"

	"semant/internal/core/diag"
	"semant/internal/engine/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func program(classes ...*ast.Class) *ast.Program {
	return &ast.Program{Classes: classes}
}

func decl(name, parent string, line int) *ast.Class {
	return &ast.Class{Pos: ast.Pos{File: "test.btm", Line: line}, Name: name, Parent: parent}
}

func messages(s *diag.Sink) []string {
	var out []string
	for _, r := range s.Reports() {
		out = append(out, r.Message)
	}
	return out
}

func names(nodes []*ClassNode) map[string]bool {
	out := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		out[n.Name] = true
	}
	return out
}

func TestBuild_DefaultParentIsObject(t *testing.T) {
	sink := diag.NewSink()
	reg := Build(program(decl("Main", "", 1), decl("Shape", "", 3)), sink)
	verified := Verify(reg, sink)

	require.Equal(t, 0, sink.Len(), messages(sink))
	for _, name := range []string{"Main", "Shape"} {
		n, ok := reg.Get(name)
		require.True(t, ok)
		assert.Equal(t, "Object", reg.ParentOf(n).Name)
	}
	// 11 built-ins plus the two declared classes.
	assert.Len(t, verified, 13)
	assert.Equal(t, "Object", verified[0].Name)
}

func TestBuild_BuiltinsAreLinked(t *testing.T) {
	reg := Build(program(), diag.NewSink())

	npe, ok := reg.Get("NullPointerException")
	require.True(t, ok)
	assert.True(t, npe.BuiltIn)
	assert.False(t, npe.Extendable)
	assert.Equal(t, "Exception", reg.ParentOf(npe).Name)
	assert.Contains(t, reg.ChildrenOf(reg.ParentOf(npe)), npe)

	_, ok = reg.Get("ArrayStoreException")
	assert.True(t, ok)

	str, _ := reg.Get("String")
	assert.False(t, str.Extendable)
	assert.Equal(t, BuiltinFile, str.File())
	assert.Equal(t, -1, str.Line())
}

func TestBuild_RejectsReservedAndDuplicateNames(t *testing.T) {
	first := decl("A", "", 1)
	sink := diag.NewSink()
	reg := Build(program(first, decl("int", "", 2), decl("A", "", 3)), sink)

	assert.Equal(t, []string{
		"Reserved word, int, cannot be used as a class name.",
		"Class A already declared.",
	}, messages(sink))
	for _, r := range sink.Reports() {
		assert.Equal(t, diag.CategoryNaming, r.Category)
	}

	a, ok := reg.Get("A")
	require.True(t, ok)
	assert.Same(t, first, a.Decl, "the first declaration wins")
	assert.False(t, reg.Has("int"))
}

func TestBuild_CannotExtendFinalOrUnknown(t *testing.T) {
	sink := diag.NewSink()
	reg := Build(program(
		decl("A", "String", 1),
		decl("B", "Missing", 2),
		decl("C", "A", 3),
	), sink)
	verified := Verify(reg, sink)

	msgs := messages(sink)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Cannot extend String", msgs[0])
	assert.Equal(t, "Cannot extend Missing", msgs[1])
	assert.Contains(t, msgs[2], "Class C is not connected to Object: ancestor A")

	got := names(verified)
	assert.False(t, got["A"])
	assert.False(t, got["B"])
	assert.False(t, got["C"])
	assert.True(t, got["Object"])
}

func TestVerify_SelfExtensionIsACycle(t *testing.T) {
	sink := diag.NewSink()
	reg := Build(program(decl("A", "A", 4)), sink)
	verified := Verify(reg, sink)

	require.Equal(t, 1, sink.Len())
	r := sink.Reports()[0]
	assert.Equal(t, diag.CategoryHierarchy, r.Category)
	assert.Equal(t, 4, r.Line)
	assert.Equal(t, "Class A is part of an inheritance cycle: A -> A", r.Message)
	assert.False(t, names(verified)["A"])
}

func TestVerify_LongerCycleAndDependents(t *testing.T) {
	sink := diag.NewSink()
	reg := Build(program(
		decl("A", "B", 1),
		decl("B", "A", 2),
		decl("C", "A", 3),
		decl("D", "", 4),
	), sink)
	verified := Verify(reg, sink)

	assert.Equal(t, []string{
		"Class A is part of an inheritance cycle: A -> B -> A",
		"Class B is part of an inheritance cycle: B -> A -> B",
		"Class C extends a class in an inheritance cycle (A).",
	}, messages(sink))

	got := names(verified)
	assert.True(t, got["D"])
	assert.False(t, got["A"] || got["B"] || got["C"])
}

func TestVerify_ParentsBeforeChildren(t *testing.T) {
	reg := Build(program(
		decl("Leaf", "Mid", 1),
		decl("Mid", "Base", 2),
		decl("Base", "", 3),
	), diag.NewSink())
	verified := Verify(reg, diag.NewSink())

	pos := make(map[string]int)
	for i, n := range verified {
		pos[n.Name] = i
	}
	assert.Less(t, pos["Object"], pos["Base"])
	assert.Less(t, pos["Base"], pos["Mid"])
	assert.Less(t, pos["Mid"], pos["Leaf"])
}

func TestRegistry_IsValidType(t *testing.T) {
	reg := Build(program(decl("Shape", "", 1)), diag.NewSink())
	for _, ok := range []string{"int", "boolean", "Shape", "Shape[]", "int[]", "String"} {
		assert.True(t, reg.IsValidType(ok), ok)
	}
	for _, bad := range []string{"void", "Circle", "Circle[]", "null"} {
		assert.False(t, reg.IsValidType(bad), bad)
	}
}
