package semant

import (
	"semant/internal/core/diag"
	"semant/internal/engine/ast"
	"semant/internal/engine/hierarchy"
)

const (
	refThis  = "this"
	refSuper = "super"
)

// expr checks e, records its resolved type on the node and returns it. The
// empty string means the type could not be resolved and an error was
// already reported.
func (c *checker) expr(e ast.Expr) string {
	if e == nil {
		return ""
	}
	var t string
	switch e := e.(type) {
	case *ast.DispatchExpr:
		t = c.dispatch(e)
	case *ast.NewExpr:
		if c.reg.Has(e.ClassName) {
			t = e.ClassName
		} else {
			c.errorf(diag.CategoryNaming, e, "Object type %s undefined.", e.ClassName)
		}
	case *ast.NewArrayExpr:
		t = c.newArray(e)
	case *ast.InstanceofExpr:
		e.Direction = c.castDirection(e.Target, e.Expr, e, "instanceof")
		t = ast.TypeBoolean
	case *ast.CastExpr:
		e.Direction = c.castDirection(e.Target, e.Expr, e, "cast")
		if c.reg.Has(e.Target) {
			t = e.Target
		}
	case *ast.AssignExpr:
		t = c.assign(e)
	case *ast.ArrayAssignExpr:
		t = c.arrayAssign(e)
	case *ast.BinaryExpr:
		t = c.binary(e)
	case *ast.UnaryExpr:
		t = c.unary(e)
	case *ast.ConstIntExpr:
		t = ast.TypeInt
	case *ast.ConstBooleanExpr:
		t = ast.TypeBoolean
	case *ast.ConstStringExpr:
		t = ast.TypeString
	case *ast.VarExpr:
		t = c.varExpr(e)
	case *ast.ArrayExpr:
		t = c.arrayExpr(e)
	}
	e.SetExprType(t)
	return t
}

type lookupResult int

const (
	lookupFound lookupResult = iota
	lookupMissing
	lookupBadRef
)

// lookupVar resolves [ref.]name: this searches the class's own members,
// super searches from the parent class, and no qualifier searches every
// open scope up the inheritance chain. Any other qualifier is reported.
func (c *checker) lookupVar(ref, name string, at ast.Node) (string, lookupResult) {
	var (
		t  string
		ok bool
	)
	switch ref {
	case "":
		t, ok = c.class.Vars.Lookup(name)
	case refThis:
		t, ok = c.class.Vars.PeekAt(name, 0)
	case refSuper:
		if parent := c.reg.ParentOf(c.class); parent != nil {
			t, ok = parent.Vars.Lookup(name)
		}
	default:
		c.errorf(diag.CategoryNaming, at, "Can only use 'this' or 'super' when referencing.")
		return "", lookupBadRef
	}
	if !ok {
		return "", lookupMissing
	}
	return t, lookupFound
}

// qualifier checks a reference's qualifier expression and returns the name
// lookupVar expects for it.
func (c *checker) qualifier(ref ast.Expr) string {
	if ref == nil {
		return ""
	}
	c.expr(ref)
	return ast.RefName(ref)
}

func (c *checker) varExpr(e *ast.VarExpr) string {
	if e.Ref == nil {
		switch e.Name {
		case refThis:
			return c.class.Name
		case refSuper:
			if parent := c.reg.ParentOf(c.class); parent != nil {
				return parent.Name
			}
			return ""
		case ast.TypeNull:
			return ast.TypeNull
		}
	}

	ref := c.qualifier(e.Ref)
	if e.Ref != nil && e.Name == "length" && ast.IsArray(e.Ref.ExprType()) {
		return ast.TypeInt
	}

	t, res := c.lookupVar(ref, e.Name, e)
	if res == lookupMissing {
		c.errorf(diag.CategoryNaming, e, "Undeclared variable access: %s", e.Name)
	}
	return t
}

func (c *checker) arrayExpr(e *ast.ArrayExpr) string {
	ref := c.qualifier(e.Ref)
	if t := c.expr(e.Index); t != "" && t != ast.TypeInt {
		c.errorf(diag.CategoryType, e, "Index of array must be an integer.")
	}

	t, res := c.lookupVar(ref, e.Name, e)
	switch res {
	case lookupMissing:
		c.errorf(diag.CategoryNaming, e, "Undeclared variable access: %s", e.Name)
		return ""
	case lookupBadRef:
		return ""
	}
	if !ast.IsArray(t) {
		c.errorf(diag.CategoryType, e, "Variable %s is not an array.", e.Name)
		return ""
	}
	return ast.ElemType(t)
}

// target resolves an assignment target, reporting unresolved names.
func (c *checker) target(ref, name string, at ast.Node) string {
	t, res := c.lookupVar(ref, name, at)
	if res == lookupMissing {
		c.errorf(diag.CategoryNaming, at, "Cannot find variable %s.", name)
	}
	return t
}

func (c *checker) assign(e *ast.AssignExpr) string {
	valueType := c.expr(e.Expr)
	varType := c.target(e.RefName, e.Name, e)
	if !c.assignable(varType, valueType) {
		c.errorf(diag.CategoryType, e, "Incompatible type %s assigned to variable %s of type %s.",
			valueType, e.Name, varType)
	}
	if valueType == "" {
		return varType
	}
	return valueType
}

func (c *checker) arrayAssign(e *ast.ArrayAssignExpr) string {
	valueType := c.expr(e.Expr)
	if t := c.expr(e.Index); t != "" && t != ast.TypeInt {
		c.errorf(diag.CategoryType, e, "Index of array must be an integer.")
	}

	elemType := ""
	if varType := c.target(e.RefName, e.Name, e); varType != "" {
		if ast.IsArray(varType) {
			elemType = ast.ElemType(varType)
		} else {
			c.errorf(diag.CategoryType, e, "Variable %s is not an array.", e.Name)
		}
	}
	if !c.assignable(elemType, valueType) {
		c.errorf(diag.CategoryType, e, "Incompatible type %s assigned to element of %s[].",
			valueType, elemType)
	}
	if valueType == "" {
		return elemType
	}
	return valueType
}

func (c *checker) dispatch(e *ast.DispatchExpr) string {
	var (
		sig   hierarchy.MethodSig
		found bool
		// owner is the class searched, for the error message.
		owner = c.class.Name
	)
	switch ref := ast.RefName(e.Ref); {
	case e.Ref == nil:
		sig, found = c.class.Methods.Lookup(e.Method)
	case ref == refThis:
		c.expr(e.Ref)
		sig, found = c.class.Methods.PeekAt(e.Method, 0)
	case ref == refSuper:
		c.expr(e.Ref)
		if parent := c.reg.ParentOf(c.class); parent != nil {
			owner = parent.Name
			sig, found = parent.Methods.PeekAt(e.Method, 0)
		}
	default:
		refType := c.expr(e.Ref)
		if refType == "" {
			c.args(e.Args)
			return ""
		}
		node, ok := c.reg.Get(refType)
		if !ok {
			c.errorf(diag.CategoryType, e, "Cannot call method %s on a value of type %s.", e.Method, refType)
			c.args(e.Args)
			return ""
		}
		owner = node.Name
		sig, found = node.Methods.Lookup(e.Method)
	}

	argTypes := c.args(e.Args)
	if !found {
		c.errorf(diag.CategoryNaming, e, "Method %s is not declared in class %s.", e.Method, owner)
		return ""
	}

	if len(argTypes) != len(sig.Params) {
		c.errorf(diag.CategoryType, e, "Wrong number of parameters for %s: expected %d, got %d.",
			e.Method, len(sig.Params), len(argTypes))
	}
	for i := 0; i < len(sig.Params) && i < len(argTypes); i++ {
		if !c.assignable(sig.Params[i], argTypes[i]) {
			c.errorf(diag.CategoryType, e, "Value passed in has incompatible type with parameter %d of %s.",
				i+1, e.Method)
		}
	}
	return sig.ReturnType
}

func (c *checker) args(args []ast.Expr) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = c.expr(a)
	}
	return out
}

func (c *checker) newArray(e *ast.NewArrayExpr) string {
	valid := ast.IsPrimitive(e.ElemType) || c.reg.Has(e.ElemType)
	if !valid {
		c.errorf(diag.CategoryNaming, e, "Object type %s undefined.", e.ElemType)
	}
	if t := c.expr(e.Size); t != "" && t != ast.TypeInt {
		c.errorf(diag.CategoryType, e, "Array size is not int.")
	}
	if !valid {
		return ""
	}
	return ast.ArrayOf(e.ElemType)
}

// castDirection checks an instanceof or cast of operand to target and
// returns which compatibility direction held.
func (c *checker) castDirection(target string, operand ast.Expr, at ast.Node, what string) ast.CastDirection {
	known := c.reg.Has(target)
	if !known {
		c.errorf(diag.CategoryNaming, at, "Unknown %s type %s.", what, target)
	}
	t := c.expr(operand)
	if !known || t == "" {
		return ast.DirectionUnresolved
	}
	switch {
	case Compatible(c.reg, target, t):
		return ast.DirectionUp
	case Compatible(c.reg, t, target):
		return ast.DirectionDown
	}
	c.errorf(diag.CategoryType, at, "Incompatible types in %s.", what)
	return ast.DirectionUnresolved
}

func (c *checker) binary(e *ast.BinaryExpr) string {
	left := c.expr(e.Left)
	right := c.expr(e.Right)

	switch e.Op {
	case ast.OpEq, ast.OpNe:
		if left != "" && right != "" &&
			!Compatible(c.reg, left, right) && !Compatible(c.reg, right, left) {
			c.errorf(diag.CategoryType, e, "Both expressions in comparison must be compatible types.")
		}
		return ast.TypeBoolean
	case ast.OpLt, ast.OpLeq, ast.OpGt, ast.OpGeq:
		c.operands(e, left, right, ast.TypeInt)
		return ast.TypeBoolean
	case ast.OpAnd, ast.OpOr:
		c.operands(e, left, right, ast.TypeBoolean)
		return ast.TypeBoolean
	default:
		c.operands(e, left, right, ast.TypeInt)
		return ast.TypeInt
	}
}

func (c *checker) operands(e *ast.BinaryExpr, left, right, want string) {
	if (left != "" && left != want) || (right != "" && right != want) {
		c.errorf(diag.CategoryType, e, "Both operands of %s must be %s.", e.Op, want)
	}
}

func (c *checker) unary(e *ast.UnaryExpr) string {
	t := c.expr(e.Expr)
	switch e.Op {
	case ast.OpNeg:
		if t != "" && t != ast.TypeInt {
			c.errorf(diag.CategoryType, e, "Type of arithmetically negated expression must be int.")
		}
		return ast.TypeInt
	case ast.OpNot:
		if t != "" && t != ast.TypeBoolean {
			c.errorf(diag.CategoryType, e, "Type of logically negated expression must be boolean.")
		}
		return ast.TypeBoolean
	default:
		switch e.Expr.(type) {
		case *ast.VarExpr, *ast.ArrayExpr:
			if t != "" && t != ast.TypeInt {
				c.errorf(diag.CategoryType, e, "Incremented or decremented variable must be an int.")
			}
		default:
			c.errorf(diag.CategoryType, e, "Incremented or decremented expressions must be variables.")
		}
		return ast.TypeInt
	}
}
