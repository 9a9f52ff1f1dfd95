package ast

import "strings"

// Type names with fixed meaning in Bantam Java.
const (
	TypeInt     = "int"
	TypeBoolean = "boolean"
	TypeVoid    = "void"
	TypeNull    = "null"
	TypeString  = "String"
	TypeObject  = "Object"
)

const arraySuffix = "[]"

// Reserved names may not be used for classes, members, formals or locals.
var reserved = map[string]struct{}{
	"null":    {},
	"void":    {},
	"super":   {},
	"this":    {},
	"boolean": {},
	"int":     {},
}

func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

func IsPrimitive(t string) bool {
	return t == TypeInt || t == TypeBoolean
}

func IsArray(t string) bool {
	return strings.HasSuffix(t, arraySuffix)
}

// ElemType strips one trailing "[]"; other names are returned unchanged.
func ElemType(t string) string {
	return strings.TrimSuffix(t, arraySuffix)
}

func ArrayOf(t string) string {
	return t + arraySuffix
}
