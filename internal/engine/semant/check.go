package semant

import (
	"semant/internal/core/diag"
	"semant/internal/engine/ast"
	"semant/internal/engine/hierarchy"
)

// CheckTypes type checks the field initializers and method bodies of every
// user class in classes, annotating each expression in place.
//
// Classes are checked one at a time: lookups from a child walk into its
// parent's tables, and the checker pushes transient scopes onto them.
func CheckTypes(reg *hierarchy.Registry, classes []*hierarchy.ClassNode, sink *diag.Sink) {
	c := &checker{reg: reg, sink: sink}
	for _, n := range classes {
		if n.BuiltIn {
			continue
		}
		c.checkClass(n)
	}
}

type checker struct {
	reg  *hierarchy.Registry
	sink *diag.Sink

	class      *hierarchy.ClassNode
	returnType string
	inLoop     bool
}

func (c *checker) errorf(cat diag.Category, n ast.Node, format string, args ...any) {
	pos := n.Position()
	c.sink.Errorf(cat, pos.File, pos.Line, format, args...)
}

// assignable is Compatible with unresolved operands treated as already
// reported.
func (c *checker) assignable(declared, actual string) bool {
	if declared == "" || actual == "" {
		return true
	}
	return Compatible(c.reg, declared, actual)
}

func (c *checker) checkClass(n *hierarchy.ClassNode) {
	c.class = n
	for _, m := range n.Decl.Members {
		switch m := m.(type) {
		case *ast.Field:
			c.checkField(m)
		case *ast.Method:
			c.checkMethod(m)
		}
	}
	c.class = nil
}

func (c *checker) checkField(f *ast.Field) {
	if f.Init == nil {
		return
	}
	if t := c.expr(f.Init); !c.assignable(f.Type, t) {
		c.errorf(diag.CategoryType, f, "Type of field incompatible with assignment.")
	}
}

func (c *checker) checkMethod(m *ast.Method) {
	vars := c.class.Vars
	c.returnType = m.ReturnType
	c.inLoop = false

	vars.EnterScope()
	for _, f := range m.Formals {
		if ast.IsReserved(f.Name) {
			c.errorf(diag.CategoryNaming, f, "Reserved word, %s, cannot be used as a parameter name.", f.Name)
			continue
		}
		if _, dup := vars.Peek(f.Name); dup {
			c.errorf(diag.CategoryNaming, f, "Parameter %s already declared.", f.Name)
			continue
		}
		vars.Add(f.Name, f.Type)
	}

	c.stmts(m.Body)

	if m.ReturnType != ast.TypeVoid {
		if len(m.Body) == 0 {
			c.errorf(diag.CategoryControlFlow, m, "Missing return statement")
		} else if _, ok := m.Body[len(m.Body)-1].(*ast.ReturnStmt); !ok {
			c.errorf(diag.CategoryControlFlow, m, "Missing return statement")
		}
	}
	vars.ExitScope()
}

// scoped runs fn inside a fresh variable scope.
func (c *checker) scoped(fn func()) {
	c.class.Vars.EnterScope()
	defer c.class.Vars.ExitScope()
	fn()
}

// loopBody checks a loop body in its own scope with the loop flag set.
func (c *checker) loopBody(body ast.Stmt) {
	prev := c.inLoop
	c.inLoop = true
	c.scoped(func() { c.stmt(body) })
	c.inLoop = prev
}

func (c *checker) stmts(list []ast.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

func (c *checker) condition(pred ast.Expr, owner ast.Node, what string) {
	t := c.expr(pred)
	if t != "" && t != ast.TypeBoolean {
		c.errorf(diag.CategoryType, owner, "%s statement conditional must be a boolean.", what)
	}
}

func (c *checker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.DeclStmt:
		c.declStmt(s)
	case *ast.ExprStmt:
		c.expr(s.Expr)
	case *ast.IfStmt:
		c.condition(s.Pred, s, "If")
		c.scoped(func() { c.stmt(s.Then) })
		if s.Else != nil {
			c.scoped(func() { c.stmt(s.Else) })
		}
	case *ast.WhileStmt:
		c.condition(s.Pred, s, "While")
		c.loopBody(s.Body)
	case *ast.ForStmt:
		if s.Init != nil {
			c.expr(s.Init)
		}
		if s.Pred != nil {
			c.condition(s.Pred, s, "For")
		}
		if s.Update != nil {
			c.expr(s.Update)
		}
		c.loopBody(s.Body)
	case *ast.BreakStmt:
		if !c.inLoop {
			c.errorf(diag.CategoryControlFlow, s, "Break statements must be in loops.")
		}
	case *ast.BlockStmt:
		c.scoped(func() { c.stmts(s.Stmts) })
	case *ast.ReturnStmt:
		c.returnStmt(s)
	}
}

func (c *checker) declStmt(s *ast.DeclStmt) {
	vars := c.class.Vars
	validType := c.reg.IsValidType(s.Type)
	if !validType {
		c.errorf(diag.CategoryNaming, s, "Invalid Type %s", s.Type)
	}
	reserved := ast.IsReserved(s.Name)
	if reserved {
		c.errorf(diag.CategoryNaming, s, "Reserved word, %s, cannot be used as a variable name.", s.Name)
	}

	initType := c.expr(s.Init)

	redeclared := false
	// Level 0 holds fields, which locals may shadow.
	for level := vars.ScopeLevel() - 1; level > 0; level-- {
		if _, ok := vars.PeekAt(s.Name, level); ok {
			c.errorf(diag.CategoryNaming, s, "Variable %s already declared.", s.Name)
			redeclared = true
			break
		}
	}
	if !reserved && !redeclared {
		vars.Add(s.Name, s.Type)
	}

	if validType && !c.assignable(s.Type, initType) {
		c.errorf(diag.CategoryType, s, "Type of variable incompatible with assignment.")
	}
}

func (c *checker) returnStmt(s *ast.ReturnStmt) {
	if s.Expr == nil {
		if c.returnType != ast.TypeVoid {
			c.errorf(diag.CategoryControlFlow, s, "Must return value in non void method.")
		}
		return
	}
	t := c.expr(s.Expr)
	if t == "" {
		return
	}
	if c.returnType == ast.TypeVoid || !Compatible(c.reg, c.returnType, t) {
		c.errorf(diag.CategoryType, s, "Return statement type does not match method return type.")
	}
}
