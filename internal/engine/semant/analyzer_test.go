package semant

import (
	"context"
	"fmt"
	"testing"

	"semant/internal/core/diag"
	"semant/internal/core/errors"
	"semant/internal/engine/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ClassWithoutParentExtendsObject(t *testing.T) {
	for _, name := range []string{"A", "Shape", "Counter", "Main2", "linkedList"} {
		t.Run(name, func(t *testing.T) {
			res := analyze(t, program(mainClass(), class(name, "")))
			require.NoError(t, res.Err(), messages(res))

			n, ok := res.Registry.Get(name)
			require.True(t, ok)
			assert.Equal(t, "Object", res.Registry.ParentOf(n).Name)
		})
	}
}

func TestCompatible_FollowsParentChain(t *testing.T) {
	res := analyze(t, program(mainClass(), class("A", ""), class("B", "A")))
	reg := res.Registry

	assert.True(t, Compatible(reg, "Object", "B"))
	assert.True(t, Compatible(reg, "A", "B"))
	assert.False(t, Compatible(reg, "B", "A"))
	assert.True(t, Compatible(reg, "A", "A"))
	assert.False(t, Compatible(reg, "B", "Missing"))
}

func TestCompatible_Null(t *testing.T) {
	res := analyze(t, program(mainClass(), class("A", "")))
	reg := res.Registry

	for _, ref := range []string{"Object", "String", "A", "A[]", "int[]"} {
		assert.True(t, Compatible(reg, ref, "null"), ref)
	}
	assert.False(t, Compatible(reg, "int", "null"))
	assert.False(t, Compatible(reg, "boolean", "null"))
}

func TestCompatible_ArraysAreInvariant(t *testing.T) {
	res := analyze(t, program(mainClass(), class("A", ""), class("B", "A")))
	reg := res.Registry

	assert.True(t, Compatible(reg, "A[]", "A[]"))
	assert.False(t, Compatible(reg, "A[]", "B[]"))
	assert.False(t, Compatible(reg, "Object", "int[]"))
}

func TestAnalyze_SelfExtensionIsExcludedFromTypeChecking(t *testing.T) {
	// The bad initializer would be a type error if A were checked.
	a := class("A", "A", field("int", "x", boolean(true)))
	res := analyze(t, program(mainClass(), a))

	require.Error(t, res.Err())
	hier := reportsIn(res, diag.CategoryHierarchy)
	require.Len(t, hier, 1)
	assert.Contains(t, hier[0].Message, "inheritance cycle")
	assert.Empty(t, reportsIn(res, diag.CategoryType))

	for _, n := range res.Classes {
		assert.NotEqual(t, "A", n.Name)
	}
}

func TestAnalyze_CannotExtendFinalClass(t *testing.T) {
	res := analyze(t, program(mainClass(), class("A", "String")))

	require.Error(t, res.Err())
	assert.Equal(t, []string{"Cannot extend String"}, messages(res))
	assert.Equal(t, diag.CategoryHierarchy, res.Sink.Reports()[0].Category)
}

func TestAnalyze_EntryPoint(t *testing.T) {
	const missing = "Valid programs must have a 'Main' class with a 'main' method."
	cases := []struct {
		name  string
		prog  *ast.Program
		valid bool
	}{
		{"no Main class", program(class("Program", "", method("void", "main", nil))), false},
		{"Main without main", program(class("Main", "", method("void", "run", nil))), false},
		{"main with a parameter", program(class("Main", "", method("void", "main", formals("int", "argc")))), false},
		{"main returning int", program(class("Main", "", method("int", "main", nil, ret(num("0"))))), false},
		{"main as a field", program(class("Main", "", field("int", "main", nil))), false},
		{"lower-case main class", program(class("main", "", method("void", "main", nil))), false},
		{"class Main { void main() {} }", program(mainClass()), true},
		{"void in any case", program(class("Main", "", method("VOID", "main", nil))), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, HasEntryPoint(tc.prog))

			sink := diag.NewSink()
			CheckEntryPoint(tc.prog, sink)
			if tc.valid {
				assert.Equal(t, 0, sink.Len())
			} else {
				require.Equal(t, 1, sink.Len())
				assert.Equal(t, missing, sink.Reports()[0].Message)
			}
		})
	}
}

func TestAnalyze_IncompatibleLocalInitializer(t *testing.T) {
	s := decl("int", "x", boolean(true))
	s.Line = 7
	res := analyze(t, program(mainClass(method("void", "run", nil, s))))

	require.Error(t, res.Err())
	types := reportsIn(res, diag.CategoryType)
	require.Len(t, types, 1)
	assert.Equal(t, "Type of variable incompatible with assignment.", types[0].Message)
	assert.Equal(t, 7, types[0].Line)
	assert.Equal(t, "test.btm", types[0].File)
}

func TestAnalyze_NonBooleanLoopConditionWithBreak(t *testing.T) {
	res := analyze(t, program(mainClass(
		method("void", "run", nil, while(num("1"), block(brk()))),
	)))

	assert.Equal(t, []string{"While statement conditional must be a boolean."}, messages(res))
	assert.Empty(t, reportsIn(res, diag.CategoryControlFlow), "break inside a loop is accepted")
}

func TestAnalyze_MissingReturnLooksAtLastStatementOnly(t *testing.T) {
	res := analyze(t, program(mainClass(
		method("int", "pick", formals("boolean", "b"),
			ifElse(v("b"), ret(num("1")), nil),
			do(num("2")),
		),
		method("int", "empty", nil),
		method("int", "ok", nil, ret(num("3"))),
	)))

	flow := reportsIn(res, diag.CategoryControlFlow)
	require.Len(t, flow, 2)
	for _, r := range flow {
		assert.Equal(t, "Missing return statement", r.Message)
	}
}

func TestAnalyze_ValidProgramAnnotatesEveryExpression(t *testing.T) {
	shape := class("Shape", "",
		field("int", "sides", num("0")),
		field("String", "label", str("shape")),
		method("int", "area", nil, ret(num("0"))),
		method("String", "describe", formals("String", "prefix"),
			ret(call(v("prefix"), "concat", dot(v("this"), "label"))),
		),
	)
	square := class("Square", "Shape",
		field("int", "side", num("2")),
		field("int[]", "history", newArray("int", num("4"))),
		method("int", "area", nil,
			decl("int", "i", num("0")),
			forLoop(
				assign("", "i", num("0")),
				bin(ast.OpLt, v("i"), dot(v("history"), "length")),
				un(ast.OpIncr, v("i")),
				block(do(assignAt("this", "history", v("i"), bin(ast.OpTimes, v("side"), v("i"))))),
			),
			ret(bin(ast.OpTimes, dot(v("this"), "side"), index(nil, "history", num("1")))),
		),
		method("boolean", "bigger", formals("Shape", "other"),
			decl("boolean", "same", bin(ast.OpEq, v("other"), v("this"))),
			ifElse(bin(ast.OpAnd, un(ast.OpNot, v("same")), instanceOf(v("other"), "Square")),
				block(decl("Square", "sq", cast("Square", v("other"))),
					ret(bin(ast.OpGt, call(v("this"), "area"), call(v("sq"), "area")))),
				nil),
			ret(bin(ast.OpNe, call(v("super"), "area"), un(ast.OpNeg, num("1")))),
		),
	)
	main := class("Main", "",
		field("TextIO", "io", newObj("TextIO")),
		method("void", "main", nil,
			decl("Shape", "s", newObj("Square")),
			decl("Shape", "nothing", v("null")),
			while(boolean(true), block(
				do(call(v("io"), "putInt", call(v("s"), "area"))),
				brk(),
			)),
			do(call(call(v("io"), "putString", call(v("s"), "describe", str("> "))), "putInt", num("3"))),
			ret(nil),
		),
	)
	prog := program(shape, square, main)
	res := analyze(t, prog)
	require.NoError(t, res.Err(), messages(res))

	exprs := ast.Exprs(prog)
	require.NotEmpty(t, exprs)
	for _, e := range exprs {
		assert.NotEmpty(t, e.ExprType(), "%T at %v has no type", e, e.Position())
	}

	// The downcast from Shape to Square is recorded as such.
	var casts, tests int
	for _, e := range exprs {
		switch e := e.(type) {
		case *ast.CastExpr:
			casts++
			assert.Equal(t, ast.DirectionDown, e.Direction)
		case *ast.InstanceofExpr:
			tests++
			assert.Equal(t, ast.DirectionDown, e.Direction)
		}
	}
	assert.Equal(t, 1, casts)
	assert.Equal(t, 1, tests)
}

func TestAnalyze_DeepHierarchy(t *testing.T) {
	const depth = 3000
	classes := []*ast.Class{mainClass()}
	parent := ""
	for i := 0; i < depth; i++ {
		name := fmt.Sprintf("C%d", i)
		classes = append(classes, class(name, parent, field("int", fmt.Sprintf("f%d", i), nil)))
		parent = name
	}
	leaf := fmt.Sprintf("C%d", depth-1)
	classes = append(classes, class("Leaf", leaf,
		method("int", "first", nil, ret(v("f0"))),
	))

	res := analyze(t, program(classes...))
	require.NoError(t, res.Err(), messages(res))
	assert.True(t, Compatible(res.Registry, "C0", "Leaf"))
	assert.False(t, Compatible(res.Registry, "Leaf", "C0"))
}

func TestAnalyze_ErrorsAreNeverDropped(t *testing.T) {
	res := analyze(t, program(
		class("A", "Missing"),
		class("B", "", field("int", "x", boolean(false))),
	))

	// Hierarchy, type and entry point problems are all reported in one run.
	assert.Len(t, reportsIn(res, diag.CategoryHierarchy), 2)
	assert.Len(t, reportsIn(res, diag.CategoryType), 1)

	err := res.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semantic analysis failed with 3 errors")
}

func TestAnalyze_OperationalErrors(t *testing.T) {
	_, err := Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Analyze(ctx, program(mainClass()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_ResultShape(t *testing.T) {
	res := analyze(t, program(mainClass(), class("A", "")))
	require.NotNil(t, res.Root)
	assert.Equal(t, "Object", res.Root.Name)
	assert.Equal(t, "Object", res.Classes[0].Name)
	// Eleven built-ins, Main and A.
	assert.Len(t, res.Classes, 13)
}
