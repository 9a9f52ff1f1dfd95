package hierarchy

import (
	"strings"

	"semant/internal/core/diag"
	"semant/internal/engine/ast"
)

// Build registers the built-ins and every class of prog, then links each
// class to its declared parent. Rejected declarations are reported to sink.
func Build(prog *ast.Program, sink *diag.Sink) *Registry {
	reg := NewRegistry()
	for _, b := range Builtins() {
		reg.Register(b.Decl, true, b.Extendable)
	}

	for _, c := range prog.Classes {
		if ast.IsReserved(c.Name) {
			sink.Errorf(diag.CategoryNaming, c.File, c.Line,
				"Reserved word, %s, cannot be used as a class name.", c.Name)
			continue
		}
		if _, ok := reg.Register(c, false, true); !ok {
			sink.Errorf(diag.CategoryNaming, c.File, c.Line, "Class %s already declared.", c.Name)
		}
	}

	root := reg.Root()
	for _, n := range reg.nodes {
		if n == root {
			continue
		}
		if n.Decl.Parent == "" {
			reg.Link(n, root)
			continue
		}
		parent, ok := reg.Get(n.Decl.Parent)
		if !ok || !parent.Extendable {
			sink.Errorf(diag.CategoryHierarchy, n.File(), n.Line(), "Cannot extend %s", n.Decl.Parent)
			n.ParentRejected = true
			continue
		}
		reg.Link(n, parent)
	}
	return reg
}

// Verify walks the tree from the root and returns the reachable nodes,
// parents before children. Every class the walk cannot reach is reported
// and left out of the result.
func Verify(reg *Registry, sink *diag.Sink) []*ClassNode {
	root := reg.Root()
	if root == nil {
		sink.Errorf(diag.CategoryHierarchy, "", 0, "Illegal Tree Structure: no Object class.")
		return nil
	}

	visited := make([]bool, reg.Len())
	order := make([]*ClassNode, 0, reg.Len())
	stack := []int{root.Index}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := reg.nodes[i]
		if visited[i] {
			sink.Errorf(diag.CategoryHierarchy, n.File(), n.Line(), "Illegal Tree Structure!")
			return order
		}
		visited[i] = true
		order = append(order, n)
		// Push in reverse so children are visited in link order.
		for j := len(n.Children) - 1; j >= 0; j-- {
			stack = append(stack, n.Children[j])
		}
	}

	if len(order) < reg.Len() {
		for _, n := range reg.nodes {
			if !visited[n.Index] {
				reportUnreachable(reg, n, sink)
			}
		}
	}
	return order
}

func reportUnreachable(reg *Registry, n *ClassNode, sink *diag.Sink) {
	if n.ParentRejected {
		return
	}

	seen := map[int]int{n.Index: 0}
	path := []string{n.Name}
	cur := n
	for cur.Parent != NoParent {
		cur = reg.nodes[cur.Parent]
		if at, ok := seen[cur.Index]; ok {
			if at == 0 {
				sink.Errorf(diag.CategoryHierarchy, n.File(), n.Line(),
					"Class %s is part of an inheritance cycle: %s -> %s",
					n.Name, strings.Join(path, " -> "), cur.Name)
			} else {
				sink.Errorf(diag.CategoryHierarchy, n.File(), n.Line(),
					"Class %s extends a class in an inheritance cycle (%s).", n.Name, cur.Name)
			}
			return
		}
		seen[cur.Index] = len(path)
		path = append(path, cur.Name)
	}
	sink.Errorf(diag.CategoryHierarchy, n.File(), n.Line(),
		"Class %s is not connected to Object: ancestor %s has no valid parent.", n.Name, cur.Name)
}
