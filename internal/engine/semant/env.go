package semant

import (
	"semant/internal/core/diag"
	"semant/internal/engine/ast"
	"semant/internal/engine/hierarchy"
)

// BuildEnvironment fills the member tables of every verified class. It walks
// the tree from the root with an explicit stack, so each class is chained to
// its parent's populated tables before its own members are added.
func BuildEnvironment(reg *hierarchy.Registry, sink *diag.Sink) {
	root := reg.Root()
	if root == nil {
		return
	}
	visited := make([]bool, reg.Len())
	stack := []*hierarchy.ClassNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.Index] {
			continue
		}
		visited[n.Index] = true

		if parent := reg.ParentOf(n); parent != nil {
			n.Vars.SetParent(parent.Vars)
			n.Methods.SetParent(parent.Methods)
		}
		n.Vars.EnterScope()
		n.Methods.EnterScope()

		e := envBuilder{reg: reg, sink: sink, class: n}
		for _, m := range n.Decl.Members {
			switch m := m.(type) {
			case *ast.Field:
				e.addField(m)
			case *ast.Method:
				e.addMethod(m)
			}
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, reg.Node(n.Children[i]))
		}
	}
}

type envBuilder struct {
	reg   *hierarchy.Registry
	sink  *diag.Sink
	class *hierarchy.ClassNode
}

func (e *envBuilder) errorf(cat diag.Category, n ast.Node, format string, args ...any) {
	pos := n.Position()
	e.sink.Errorf(cat, pos.File, pos.Line, format, args...)
}

func (e *envBuilder) checkType(t string, n ast.Node) {
	if !e.reg.IsValidType(t) {
		e.errorf(diag.CategoryNaming, n, "Invalid Type %s", t)
	}
}

func (e *envBuilder) addField(f *ast.Field) {
	e.checkType(f.Type, f)
	if _, dup := e.class.Vars.Peek(f.Name); dup {
		e.errorf(diag.CategoryNaming, f, "Field %s already declared.", f.Name)
		return
	}
	if ast.IsReserved(f.Name) {
		e.errorf(diag.CategoryNaming, f, "Reserved word, %s, cannot be used as a field or method name.", f.Name)
		return
	}
	e.class.Vars.Add(f.Name, f.Type)
}

func (e *envBuilder) addMethod(m *ast.Method) {
	if m.ReturnType != ast.TypeVoid {
		e.checkType(m.ReturnType, m)
	}
	if _, dup := e.class.Methods.Peek(m.Name); dup {
		e.errorf(diag.CategoryNaming, m, "Method %s already declared.", m.Name)
		return
	}
	if ast.IsReserved(m.Name) {
		e.errorf(diag.CategoryNaming, m, "Reserved word, %s, cannot be used as a field or method name.", m.Name)
		return
	}

	params := make([]string, 0, len(m.Formals))
	for _, f := range m.Formals {
		e.checkType(f.Type, f)
		params = append(params, f.Type)
	}

	if inherited, ok := e.class.Methods.Lookup(m.Name); ok {
		if len(inherited.Params) != len(params) {
			e.errorf(diag.CategorySignature, m,
				"Overriding method must have same number of parameters as the inherited method.")
		} else {
			for i := range params {
				if params[i] != inherited.Params[i] {
					e.errorf(diag.CategorySignature, m,
						"Overriding method must have same signature as the inherited method.")
					break
				}
			}
		}
	}

	e.class.Methods.Add(m.Name, hierarchy.MethodSig{ReturnType: m.ReturnType, Params: params})
}
