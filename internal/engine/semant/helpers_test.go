package semant

import (
	"context"
	"testing"

	"semant/internal/core/diag"
	"semant/internal/engine/ast"

	"github.com/stretchr/testify/require"
)

// Small constructors so test programs read close to Bantam source. Every
// node sits at line 1 of test.btm unless a test sets Line itself.

var here = ast.Pos{File: "test.btm", Line: 1}

func program(classes ...*ast.Class) *ast.Program { return &ast.Program{Classes: classes} }

func class(name, parent string, members ...ast.Member) *ast.Class {
	return &ast.Class{Pos: here, Name: name, Parent: parent, Members: members}
}

// mainClass is class Main { void main() {} ...members }.
func mainClass(members ...ast.Member) *ast.Class {
	return class("Main", "", append([]ast.Member{method("void", "main", nil)}, members...)...)
}

func field(typ, name string, init ast.Expr) *ast.Field {
	return &ast.Field{Pos: here, Type: typ, Name: name, Init: init}
}

func method(ret, name string, formals []*ast.Formal, body ...ast.Stmt) *ast.Method {
	return &ast.Method{Pos: here, ReturnType: ret, Name: name, Formals: formals, Body: body}
}

func formals(typeNamePairs ...string) []*ast.Formal {
	var out []*ast.Formal
	for i := 0; i+1 < len(typeNamePairs); i += 2 {
		out = append(out, &ast.Formal{Pos: here, Type: typeNamePairs[i], Name: typeNamePairs[i+1]})
	}
	return out
}

func decl(typ, name string, init ast.Expr) *ast.DeclStmt {
	return &ast.DeclStmt{Pos: here, Type: typ, Name: name, Init: init}
}

func do(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{Pos: here, Expr: e} }

func ifElse(pred ast.Expr, then, els ast.Stmt) *ast.IfStmt {
	return &ast.IfStmt{Pos: here, Pred: pred, Then: then, Else: els}
}

func while(pred ast.Expr, body ast.Stmt) *ast.WhileStmt {
	return &ast.WhileStmt{Pos: here, Pred: pred, Body: body}
}

func forLoop(init, pred, update ast.Expr, body ast.Stmt) *ast.ForStmt {
	return &ast.ForStmt{Pos: here, Init: init, Pred: pred, Update: update, Body: body}
}

func brk() *ast.BreakStmt { return &ast.BreakStmt{Pos: here} }

func block(stmts ...ast.Stmt) *ast.BlockStmt { return &ast.BlockStmt{Pos: here, Stmts: stmts} }

func ret(e ast.Expr) *ast.ReturnStmt { return &ast.ReturnStmt{Pos: here, Expr: e} }

func num(v string) *ast.ConstIntExpr { return &ast.ConstIntExpr{Pos: here, Value: v} }

func boolean(v bool) *ast.ConstBooleanExpr { return &ast.ConstBooleanExpr{Pos: here, Value: v} }

func str(v string) *ast.ConstStringExpr { return &ast.ConstStringExpr{Pos: here, Value: v} }

func v(name string) *ast.VarExpr { return &ast.VarExpr{Pos: here, Name: name} }

// dot is ref.name.
func dot(ref ast.Expr, name string) *ast.VarExpr {
	return &ast.VarExpr{Pos: here, Ref: ref, Name: name}
}

func index(ref ast.Expr, name string, idx ast.Expr) *ast.ArrayExpr {
	return &ast.ArrayExpr{Pos: here, Ref: ref, Name: name, Index: idx}
}

func call(ref ast.Expr, name string, args ...ast.Expr) *ast.DispatchExpr {
	return &ast.DispatchExpr{Pos: here, Ref: ref, Method: name, Args: args}
}

func newObj(class string) *ast.NewExpr { return &ast.NewExpr{Pos: here, ClassName: class} }

func newArray(elem string, size ast.Expr) *ast.NewArrayExpr {
	return &ast.NewArrayExpr{Pos: here, ElemType: elem, Size: size}
}

func assign(ref, name string, e ast.Expr) *ast.AssignExpr {
	return &ast.AssignExpr{Pos: here, RefName: ref, Name: name, Expr: e}
}

func assignAt(ref, name string, idx, e ast.Expr) *ast.ArrayAssignExpr {
	return &ast.ArrayAssignExpr{Pos: here, RefName: ref, Name: name, Index: idx, Expr: e}
}

func bin(op ast.BinaryOp, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Pos: here, Op: op, Left: l, Right: r}
}

func un(op ast.UnaryOp, e ast.Expr) *ast.UnaryExpr {
	return &ast.UnaryExpr{Pos: here, Op: op, Expr: e}
}

func instanceOf(e ast.Expr, target string) *ast.InstanceofExpr {
	return &ast.InstanceofExpr{Pos: here, Expr: e, Target: target}
}

func cast(target string, e ast.Expr) *ast.CastExpr {
	return &ast.CastExpr{Pos: here, Target: target, Expr: e}
}

func analyze(t *testing.T, p *ast.Program) *Result {
	t.Helper()
	res, err := Analyze(context.Background(), p)
	require.NoError(t, err)
	return res
}

func messages(res *Result) []string {
	var out []string
	for _, r := range res.Sink.Reports() {
		out = append(out, r.Message)
	}
	return out
}

func reportsIn(res *Result, cat diag.Category) []diag.Report {
	var out []diag.Report
	for _, r := range res.Sink.Reports() {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}
