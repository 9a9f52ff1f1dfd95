package hierarchy

import "semant/internal/engine/ast"

// BuiltinFile is the file name reported for built-in declarations.
const BuiltinFile = "<built-in class>"

var builtinPos = ast.Pos{File: BuiltinFile, Line: -1}

// Builtin is one class of the runtime library.
type Builtin struct {
	Decl       *ast.Class
	Extendable bool
}

// Builtins returns fresh declarations of the runtime library classes, root
// first. Each call builds new nodes so runs never share state.
func Builtins() []Builtin {
	out := []Builtin{
		{Extendable: true, Decl: class("Object", "",
			method("Object", "clone"),
			method("boolean", "equals", formal("Object", "o")),
			method("String", "toString"),
		)},
		{Extendable: false, Decl: class("String", "Object",
			field("int", "length"),
			method("int", "length"),
			method("boolean", "equals", formal("Object", "str")),
			method("String", "toString"),
			method("String", "substring", formal("int", "beginIndex"), formal("int", "endIndex")),
			method("String", "concat", formal("String", "str")),
		)},
		{Extendable: false, Decl: class("TextIO", "Object",
			field("int", "readFD"),
			field("int", "writeFD"),
			method("void", "readStdin"),
			method("void", "readFile", formal("String", "readFile")),
			method("void", "writeStdout"),
			method("void", "writeStderr"),
			method("void", "writeFile", formal("String", "writeFile")),
			method("String", "getString"),
			method("int", "getInt"),
			method("TextIO", "putString", formal("String", "str")),
			method("TextIO", "putInt", formal("int", "n")),
		)},
		{Extendable: false, Decl: class("Sys", "Object",
			method("void", "exit", formal("int", "status")),
			method("int", "time"),
			method("int", "random"),
		)},
		{Extendable: true, Decl: class("Exception", "Object",
			field("String", "message"),
			method("String", "getMessage"),
			method("void", "setMessage", formal("String", "m")),
		)},
	}
	for _, name := range []string{
		"NullPointerException",
		"DivideByZeroException",
		"ClassCastException",
		"ArrayIndexOutOfBoundsException",
		"ArraySizeException",
		"ArrayStoreException",
	} {
		out = append(out, Builtin{Decl: class(name, "Exception")})
	}
	return out
}

func class(name, parent string, members ...ast.Member) *ast.Class {
	return &ast.Class{Pos: builtinPos, Name: name, Parent: parent, Members: members}
}

func method(ret, name string, formals ...*ast.Formal) *ast.Method {
	return &ast.Method{Pos: builtinPos, ReturnType: ret, Name: name, Formals: formals}
}

func field(typ, name string) *ast.Field {
	return &ast.Field{Pos: builtinPos, Type: typ, Name: name}
}

func formal(typ, name string) *ast.Formal {
	return &ast.Formal{Pos: builtinPos, Type: typ, Name: name}
}
