package ast

// Walk traverses n depth-first in source order, calling fn for every node
// before its children. Children are skipped when fn returns false. Nil
// optional children are not visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, c := range n.Classes {
			Walk(c, fn)
		}
	case *Class:
		for _, m := range n.Members {
			Walk(m, fn)
		}
	case *Field:
		walkExpr(n.Init, fn)
	case *Method:
		for _, f := range n.Formals {
			Walk(f, fn)
		}
		for _, s := range n.Body {
			Walk(s, fn)
		}
	case *Formal, *BreakStmt:
	case *DeclStmt:
		walkExpr(n.Init, fn)
	case *ExprStmt:
		walkExpr(n.Expr, fn)
	case *IfStmt:
		walkExpr(n.Pred, fn)
		walkStmt(n.Then, fn)
		walkStmt(n.Else, fn)
	case *WhileStmt:
		walkExpr(n.Pred, fn)
		walkStmt(n.Body, fn)
	case *ForStmt:
		walkExpr(n.Init, fn)
		walkExpr(n.Pred, fn)
		walkExpr(n.Update, fn)
		walkStmt(n.Body, fn)
	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
	case *ReturnStmt:
		walkExpr(n.Expr, fn)
	case *DispatchExpr:
		walkExpr(n.Ref, fn)
		for _, a := range n.Args {
			walkExpr(a, fn)
		}
	case *NewArrayExpr:
		walkExpr(n.Size, fn)
	case *InstanceofExpr:
		walkExpr(n.Expr, fn)
	case *CastExpr:
		walkExpr(n.Expr, fn)
	case *AssignExpr:
		walkExpr(n.Expr, fn)
	case *ArrayAssignExpr:
		walkExpr(n.Index, fn)
		walkExpr(n.Expr, fn)
	case *BinaryExpr:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *UnaryExpr:
		walkExpr(n.Expr, fn)
	case *VarExpr:
		walkExpr(n.Ref, fn)
	case *ArrayExpr:
		walkExpr(n.Ref, fn)
		walkExpr(n.Index, fn)
	}
}

// The typed helpers keep a nil Expr or Stmt from becoming a non-nil Node.
func walkExpr(e Expr, fn func(Node) bool) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkStmt(s Stmt, fn func(Node) bool) {
	if s != nil {
		Walk(s, fn)
	}
}

// Exprs returns every expression under n in traversal order.
func Exprs(n Node) []Expr {
	var out []Expr
	Walk(n, func(n Node) bool {
		if e, ok := n.(Expr); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}
