// Package hierarchy builds and verifies the class inheritance tree.
//
// Class nodes live in an arena owned by the Registry. Parent links are arena
// indices, so the tree can be walked, and cycles detected, without any node
// owning another.
package hierarchy

import (
	"semant/internal/engine/ast"
	"semant/internal/engine/symtab"
)

// NoParent marks a node with no parent link: the root, or a class whose
// declared parent was rejected.
const NoParent = -1

// MethodSig is the binding stored in a method table.
type MethodSig struct {
	ReturnType string
	Params     []string
}

type ClassNode struct {
	Index      int
	Name       string
	Decl       *ast.Class
	BuiltIn    bool
	Extendable bool
	Parent     int
	Children   []int

	Vars    *symtab.Table[string]
	Methods *symtab.Table[MethodSig]

	// ParentRejected is set when the declared parent could not be linked and
	// that has already been reported.
	ParentRejected bool
}

func (n *ClassNode) File() string {
	if n.Decl == nil {
		return ""
	}
	return n.Decl.File
}

func (n *ClassNode) Line() int {
	if n.Decl == nil {
		return 0
	}
	return n.Decl.Line
}

// Registry is the class map for a single analysis run.
type Registry struct {
	nodes  []*ClassNode
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a class node. It returns false, registering nothing, when
// the name is already taken.
func (r *Registry) Register(decl *ast.Class, builtIn, extendable bool) (*ClassNode, bool) {
	if _, exists := r.byName[decl.Name]; exists {
		return nil, false
	}
	n := &ClassNode{
		Index:      len(r.nodes),
		Name:       decl.Name,
		Decl:       decl,
		BuiltIn:    builtIn,
		Extendable: extendable,
		Parent:     NoParent,
		Vars:       symtab.New[string](),
		Methods:    symtab.New[MethodSig](),
	}
	r.nodes = append(r.nodes, n)
	r.byName[decl.Name] = n.Index
	return n, true
}

func (r *Registry) Get(name string) (*ClassNode, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.nodes[i], true
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) Node(i int) *ClassNode {
	if i < 0 || i >= len(r.nodes) {
		return nil
	}
	return r.nodes[i]
}

// Root returns the Object node, or nil before built-ins are registered.
func (r *Registry) Root() *ClassNode {
	n, _ := r.Get(ast.TypeObject)
	return n
}

func (r *Registry) ParentOf(n *ClassNode) *ClassNode {
	return r.Node(n.Parent)
}

func (r *Registry) ChildrenOf(n *ClassNode) []*ClassNode {
	out := make([]*ClassNode, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, r.nodes[c])
	}
	return out
}

// Nodes returns every registered node in registration order.
func (r *Registry) Nodes() []*ClassNode {
	out := make([]*ClassNode, len(r.nodes))
	copy(out, r.nodes)
	return out
}

func (r *Registry) Len() int {
	return len(r.nodes)
}

// Link records parent as child's parent.
func (r *Registry) Link(child, parent *ClassNode) {
	child.Parent = parent.Index
	parent.Children = append(parent.Children, child.Index)
}

// IsValidType reports whether t names int, boolean, a registered class, or
// an array of one of those.
func (r *Registry) IsValidType(t string) bool {
	base := ast.ElemType(t)
	return ast.IsPrimitive(base) || r.Has(base)
}
