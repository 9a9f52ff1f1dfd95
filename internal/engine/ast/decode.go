package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"semant/internal/core/errors"
)

// wireNode is the parser's JSON node shape. Every member, statement and
// expression carries a "kind" discriminator; unused attributes are omitted.
type wireNode struct {
	Kind    string          `json:"kind"`
	File    string          `json:"file,omitempty"`
	Line    int             `json:"line"`
	Name    string          `json:"name,omitempty"`
	Type    string          `json:"type,omitempty"`
	RefName string          `json:"refName,omitempty"`
	Method  string          `json:"method,omitempty"`
	Op      string          `json:"op,omitempty"`
	Postfix bool            `json:"postfix,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`

	Ref    *wireNode `json:"ref,omitempty"`
	Init   *wireNode `json:"init,omitempty"`
	Pred   *wireNode `json:"pred,omitempty"`
	Update *wireNode `json:"update,omitempty"`
	Expr   *wireNode `json:"expr,omitempty"`
	Index  *wireNode `json:"index,omitempty"`
	Size   *wireNode `json:"size,omitempty"`
	Left   *wireNode `json:"left,omitempty"`
	Right  *wireNode `json:"right,omitempty"`
	Then   *wireNode `json:"then,omitempty"`
	Else   *wireNode `json:"else,omitempty"`
	Body   *wireNode `json:"body,omitempty"`

	Formals []*wireNode `json:"formals,omitempty"`
	Stmts   []*wireNode `json:"stmts,omitempty"`
	Args    []*wireNode `json:"args,omitempty"`
}

type wireClass struct {
	File    string      `json:"file,omitempty"`
	Line    int         `json:"line"`
	Name    string      `json:"name"`
	Parent  string      `json:"parent,omitempty"`
	Members []*wireNode `json:"members"`
}

type wireDocument struct {
	File    string       `json:"file"`
	Classes []*wireClass `json:"classes"`
}

// Decode reads one parser document. name is used as the source file when the
// document does not carry one.
func Decode(r io.Reader, name string) (*Program, error) {
	var doc wireDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode ast document")
	}
	file := doc.File
	if file == "" {
		file = name
	}

	prog := &Program{Classes: make([]*Class, 0, len(doc.Classes))}
	for i, wc := range doc.Classes {
		if wc == nil {
			return nil, errors.Newf(errors.CodeValidationError, "class %d is null", i)
		}
		c, err := decodeClass(wc, file)
		if err != nil {
			return nil, err
		}
		prog.Classes = append(prog.Classes, c)
	}
	return prog, nil
}

// LoadFiles decodes every path and concatenates the classes in argument order.
func LoadFiles(paths ...string) (*Program, error) {
	prog := &Program{}
	for _, path := range paths {
		p, err := loadFile(path)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, path)
		}
		prog.Classes = append(prog.Classes, p.Classes...)
	}
	return prog, nil
}

func loadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "open ast document")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "open ast document")
	}
	defer f.Close()
	return Decode(f, sourceName(path))
}

// sourceName maps "dir/Main.ast.json" to "Main.btm" for documents that do not
// name their source file.
func sourceName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".ast.json", ".json"} {
		if stem, ok := strings.CutSuffix(base, ext); ok && stem != "" {
			return stem + ".btm"
		}
	}
	return base
}

func decodeClass(wc *wireClass, file string) (*Class, error) {
	if wc.File != "" {
		file = wc.File
	}
	if wc.Name == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "class without a name"),
			errors.CtxNode, fmt.Sprintf("%s:%d", file, wc.Line))
	}
	c := &Class{
		Pos:     Pos{File: file, Line: wc.Line},
		Name:    wc.Name,
		Parent:  wc.Parent,
		Members: make([]Member, 0, len(wc.Members)),
	}
	d := decoder{file: file}
	for _, wm := range wc.Members {
		m, err := d.member(wm)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxNode, "class "+wc.Name)
		}
		c.Members = append(c.Members, m)
	}
	return c, nil
}

type decoder struct {
	file string
}

func (d decoder) pos(w *wireNode) Pos {
	if w.File != "" {
		return Pos{File: w.File, Line: w.Line}
	}
	return Pos{File: d.file, Line: w.Line}
}

func (d decoder) invalid(w *wireNode, format string, args ...any) error {
	return errors.Newf(errors.CodeValidationError, "line %d: %s", w.Line, fmt.Sprintf(format, args...))
}

func (d decoder) member(w *wireNode) (Member, error) {
	if w == nil {
		return nil, errors.New(errors.CodeValidationError, "null member")
	}
	switch w.Kind {
	case "field":
		initExpr, err := d.optExpr(w.Init)
		if err != nil {
			return nil, err
		}
		return &Field{Pos: d.pos(w), Type: w.Type, Name: w.Name, Init: initExpr}, nil
	case "method":
		m := &Method{Pos: d.pos(w), ReturnType: w.Type, Name: w.Name}
		for _, wf := range w.Formals {
			if wf == nil {
				return nil, d.invalid(w, "null formal in method %s", w.Name)
			}
			m.Formals = append(m.Formals, &Formal{Pos: d.pos(wf), Type: wf.Type, Name: wf.Name})
		}
		body, err := d.stmts(w.Stmts)
		if err != nil {
			return nil, err
		}
		m.Body = body
		return m, nil
	default:
		return nil, d.invalid(w, "unknown member kind %q", w.Kind)
	}
}

func (d decoder) stmts(ws []*wireNode) ([]Stmt, error) {
	out := make([]Stmt, 0, len(ws))
	for _, w := range ws {
		s, err := d.stmt(w)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d decoder) optStmt(w *wireNode) (Stmt, error) {
	if w == nil {
		return nil, nil
	}
	return d.stmt(w)
}

func (d decoder) stmt(w *wireNode) (Stmt, error) {
	if w == nil {
		return nil, errors.New(errors.CodeValidationError, "null statement")
	}
	pos := d.pos(w)
	switch w.Kind {
	case "decl":
		initExpr, err := d.expr(w.Init)
		if err != nil {
			return nil, err
		}
		return &DeclStmt{Pos: pos, Type: w.Type, Name: w.Name, Init: initExpr}, nil
	case "expr":
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Pos: pos, Expr: e}, nil
	case "if":
		pred, err := d.expr(w.Pred)
		if err != nil {
			return nil, err
		}
		then, err := d.stmt(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.optStmt(w.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Pos: pos, Pred: pred, Then: then, Else: els}, nil
	case "while":
		pred, err := d.expr(w.Pred)
		if err != nil {
			return nil, err
		}
		body, err := d.stmt(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Pos: pos, Pred: pred, Body: body}, nil
	case "for":
		s := &ForStmt{Pos: pos}
		var err error
		if s.Init, err = d.optExpr(w.Init); err != nil {
			return nil, err
		}
		if s.Pred, err = d.optExpr(w.Pred); err != nil {
			return nil, err
		}
		if s.Update, err = d.optExpr(w.Update); err != nil {
			return nil, err
		}
		if s.Body, err = d.stmt(w.Body); err != nil {
			return nil, err
		}
		return s, nil
	case "break":
		return &BreakStmt{Pos: pos}, nil
	case "block":
		stmts, err := d.stmts(w.Stmts)
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Pos: pos, Stmts: stmts}, nil
	case "return":
		e, err := d.optExpr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Pos: pos, Expr: e}, nil
	default:
		return nil, d.invalid(w, "unknown statement kind %q", w.Kind)
	}
}

func (d decoder) optExpr(w *wireNode) (Expr, error) {
	if w == nil {
		return nil, nil
	}
	return d.expr(w)
}

func (d decoder) exprs(ws []*wireNode) ([]Expr, error) {
	out := make([]Expr, 0, len(ws))
	for _, w := range ws {
		e, err := d.expr(w)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d decoder) expr(w *wireNode) (Expr, error) {
	if w == nil {
		return nil, errors.New(errors.CodeValidationError, "missing expression")
	}
	pos := d.pos(w)
	switch w.Kind {
	case "dispatch":
		ref, err := d.optExpr(w.Ref)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(w.Args)
		if err != nil {
			return nil, err
		}
		return &DispatchExpr{Pos: pos, Ref: ref, Method: w.Method, Args: args}, nil
	case "new":
		return &NewExpr{Pos: pos, ClassName: w.Type}, nil
	case "newArray":
		size, err := d.expr(w.Size)
		if err != nil {
			return nil, err
		}
		return &NewArrayExpr{Pos: pos, ElemType: w.Type, Size: size}, nil
	case "instanceof":
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &InstanceofExpr{Pos: pos, Expr: e, Target: w.Type}, nil
	case "cast":
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &CastExpr{Pos: pos, Target: w.Type, Expr: e}, nil
	case "assign":
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Pos: pos, RefName: w.RefName, Name: w.Name, Expr: e}, nil
	case "arrayAssign":
		idx, err := d.expr(w.Index)
		if err != nil {
			return nil, err
		}
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ArrayAssignExpr{Pos: pos, RefName: w.RefName, Name: w.Name, Index: idx, Expr: e}, nil
	case "binary":
		op := BinaryOp(w.Op)
		if !validBinary(op) {
			return nil, d.invalid(w, "unknown binary operator %q", w.Op)
		}
		left, err := d.expr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Pos: pos, Op: op, Left: left, Right: right}, nil
	case "unary":
		op := UnaryOp(w.Op)
		switch op {
		case OpNeg, OpNot, OpIncr, OpDecr:
		default:
			return nil, d.invalid(w, "unknown unary operator %q", w.Op)
		}
		e, err := d.expr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: pos, Op: op, Expr: e, Postfix: w.Postfix}, nil
	case "int":
		var n json.Number
		if err := json.Unmarshal(w.Value, &n); err != nil {
			return nil, d.invalid(w, "int literal: %v", err)
		}
		return &ConstIntExpr{Pos: pos, Value: n.String()}, nil
	case "boolean":
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return nil, d.invalid(w, "boolean literal: %v", err)
		}
		return &ConstBooleanExpr{Pos: pos, Value: b}, nil
	case "string":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return nil, d.invalid(w, "string literal: %v", err)
		}
		return &ConstStringExpr{Pos: pos, Value: s}, nil
	case "var":
		ref, err := d.optExpr(w.Ref)
		if err != nil {
			return nil, err
		}
		return &VarExpr{Pos: pos, Ref: ref, Name: w.Name}, nil
	case "array":
		ref, err := d.optExpr(w.Ref)
		if err != nil {
			return nil, err
		}
		idx, err := d.expr(w.Index)
		if err != nil {
			return nil, err
		}
		return &ArrayExpr{Pos: pos, Ref: ref, Name: w.Name, Index: idx}, nil
	default:
		return nil, d.invalid(w, "unknown expression kind %q", w.Kind)
	}
}

func validBinary(op BinaryOp) bool {
	switch op {
	case OpPlus, OpMinus, OpTimes, OpDivide, OpModulus,
		OpEq, OpNe, OpLt, OpLeq, OpGt, OpGeq, OpAnd, OpOr:
		return true
	}
	return false
}
