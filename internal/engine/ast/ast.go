// Package ast defines the Bantam Java syntax tree handed over by the parser.
//
// Statements and expressions are closed sets: every concrete node type
// implements an unexported marker method, so a type switch over Stmt or Expr
// in this module is exhaustive by construction. Expression nodes carry the
// type annotation written by the semantic checker.
package ast

// Pos identifies where a node came from. Line is 1-based; built-in nodes use
// line -1 and the file "<built-in class>".
type Pos struct {
	File string
	Line int
}

func (p Pos) Position() Pos { return p }

type Node interface {
	Position() Pos
}

type Program struct {
	Classes []*Class
}

func (*Program) Position() Pos { return Pos{} }

type Class struct {
	Pos
	Name string
	// Parent is empty when the class has no extends clause.
	Parent  string
	Members []Member
}

func (c *Class) Fields() []*Field {
	var out []*Field
	for _, m := range c.Members {
		if f, ok := m.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

func (c *Class) Methods() []*Method {
	var out []*Method
	for _, m := range c.Members {
		if mm, ok := m.(*Method); ok {
			out = append(out, mm)
		}
	}
	return out
}

// Member is a *Field or a *Method.
type Member interface {
	Node
	memberNode()
}

type Field struct {
	Pos
	Type string
	Name string
	Init Expr // nil when the field has no initializer
}

type Method struct {
	Pos
	ReturnType string
	Name       string
	Formals    []*Formal
	Body       []Stmt
}

type Formal struct {
	Pos
	Type string
	Name string
}

func (*Field) memberNode()  {}
func (*Method) memberNode() {}

// Statements

type Stmt interface {
	Node
	stmtNode()
}

type DeclStmt struct {
	Pos
	Type string
	Name string
	Init Expr
}

type ExprStmt struct {
	Pos
	Expr Expr
}

type IfStmt struct {
	Pos
	Pred Expr
	Then Stmt
	Else Stmt // nil without an else branch
}

type WhileStmt struct {
	Pos
	Pred Expr
	Body Stmt
}

// ForStmt's Init, Pred and Update are each optional.
type ForStmt struct {
	Pos
	Init   Expr
	Pred   Expr
	Update Expr
	Body   Stmt
}

type BreakStmt struct {
	Pos
}

type BlockStmt struct {
	Pos
	Stmts []Stmt
}

type ReturnStmt struct {
	Pos
	Expr Expr // nil for a bare return
}

func (*DeclStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()  {}
func (*BlockStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode() {}

// Expressions

type Expr interface {
	Node
	// ExprType is the resolved type name, or "" when the checker could not
	// resolve it (an error has then already been reported).
	ExprType() string
	SetExprType(string)
	exprNode()
}

type annotation struct {
	exprType string
}

func (a *annotation) ExprType() string     { return a.exprType }
func (a *annotation) SetExprType(t string) { a.exprType = t }
func (a *annotation) exprNode()            {}

// CastDirection records which compatibility direction held for a cast or an
// instanceof test.
type CastDirection int

const (
	DirectionUnresolved CastDirection = iota
	DirectionUp
	DirectionDown
)

func (d CastDirection) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unresolved"
	}
}

// DispatchExpr is a method call. Ref is nil for an unqualified call.
type DispatchExpr struct {
	Pos
	annotation
	Ref    Expr
	Method string
	Args   []Expr
}

type NewExpr struct {
	Pos
	annotation
	ClassName string
}

type NewArrayExpr struct {
	Pos
	annotation
	ElemType string
	Size     Expr
}

type InstanceofExpr struct {
	Pos
	annotation
	Expr      Expr
	Target    string
	Direction CastDirection
}

type CastExpr struct {
	Pos
	annotation
	Target    string
	Expr      Expr
	Direction CastDirection
}

// AssignExpr is `[RefName.]Name = Expr`; RefName is "", "this" or "super".
type AssignExpr struct {
	Pos
	annotation
	RefName string
	Name    string
	Expr    Expr
}

type ArrayAssignExpr struct {
	Pos
	annotation
	RefName string
	Name    string
	Index   Expr
	Expr    Expr
}

type BinaryOp string

const (
	OpPlus    BinaryOp = "+"
	OpMinus   BinaryOp = "-"
	OpTimes   BinaryOp = "*"
	OpDivide  BinaryOp = "/"
	OpModulus BinaryOp = "%"
	OpEq      BinaryOp = "=="
	OpNe      BinaryOp = "!="
	OpLt      BinaryOp = "<"
	OpLeq     BinaryOp = "<="
	OpGt      BinaryOp = ">"
	OpGeq     BinaryOp = ">="
	OpAnd     BinaryOp = "&&"
	OpOr      BinaryOp = "||"
)

type BinaryExpr struct {
	Pos
	annotation
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type UnaryOp string

const (
	OpNeg  UnaryOp = "-"
	OpNot  UnaryOp = "!"
	OpIncr UnaryOp = "++"
	OpDecr UnaryOp = "--"
)

type UnaryExpr struct {
	Pos
	annotation
	Op      UnaryOp
	Expr    Expr
	Postfix bool
}

type ConstIntExpr struct {
	Pos
	annotation
	Value string
}

type ConstBooleanExpr struct {
	Pos
	annotation
	Value bool
}

type ConstStringExpr struct {
	Pos
	annotation
	Value string
}

// VarExpr is `[Ref.]Name`. With a nil Ref, the names this, super and null
// denote the receiver, the receiver's parent view and the null literal.
type VarExpr struct {
	Pos
	annotation
	Ref  Expr
	Name string
}

// ArrayExpr is `[Ref.]Name[Index]`.
type ArrayExpr struct {
	Pos
	annotation
	Ref   Expr
	Name  string
	Index Expr
}

// RefName returns the qualifier of a variable-like reference: "" when
// unqualified, the qualifier's name when it is a plain VarExpr, and "?"
// for any other qualifier expression.
func RefName(ref Expr) string {
	if ref == nil {
		return ""
	}
	if v, ok := ref.(*VarExpr); ok && v.Ref == nil {
		return v.Name
	}
	return "?"
}
