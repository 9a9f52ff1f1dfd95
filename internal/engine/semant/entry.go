package semant

import (
	"strings"

	"semant/internal/core/diag"
	"semant/internal/engine/ast"
)

const (
	entryClass  = "Main"
	entryMethod = "main"
)

// HasEntryPoint reports whether prog declares class Main with a
// parameterless void method main.
func HasEntryPoint(prog *ast.Program) bool {
	for _, c := range prog.Classes {
		if c.Name != entryClass {
			continue
		}
		for _, m := range c.Methods() {
			if m.Name == entryMethod && len(m.Formals) == 0 && strings.EqualFold(m.ReturnType, ast.TypeVoid) {
				return true
			}
		}
	}
	return false
}

// CheckEntryPoint reports a missing entry point to sink.
func CheckEntryPoint(prog *ast.Program, sink *diag.Sink) bool {
	if HasEntryPoint(prog) {
		return true
	}
	sink.Errorf(diag.CategoryHierarchy, "", 0, "Valid programs must have a 'Main' class with a 'main' method.")
	return false
}
