package access

// Package access answers "can code outside the declaring package reach this
// without elevated trust" for reflected types and members. This package is
// internal and not part of the public API.

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsExportedName reports whether name starts with an upper-case letter.
func IsExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// IsInternalPath reports whether pkgPath contains an "internal" element, which
// makes its declarations unreachable from outside the enclosing tree.
func IsInternalPath(pkgPath string) bool {
	if pkgPath == "" {
		return false
	}
	for _, elem := range strings.Split(pkgPath, "/") {
		if elem == "internal" {
			return true
		}
	}
	return false
}

// IsTypeVisible reports whether t can be named by a caller outside its
// declaring package.
func IsTypeVisible(t reflect.Type) bool {
	return isTypeVisible(t, map[reflect.Type]bool{})
}

func isTypeVisible(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil {
		return false
	}
	if v, ok := seen[t]; ok {
		return v
	}
	// optimistic for recursive types; overwritten below
	seen[t] = true
	v := computeVisible(t, seen)
	seen[t] = v
	return v
}

func computeVisible(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			// predeclared (int, string, error, ...)
			return true
		}
		return IsExportedName(t.Name()) && !IsInternalPath(t.PkgPath()) && typeArgsVisible(t.Name())
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		return isTypeVisible(t.Elem(), seen)
	case reflect.Map:
		return isTypeVisible(t.Key(), seen) && isTypeVisible(t.Elem(), seen)
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			if !isTypeVisible(t.In(i), seen) {
				return false
			}
		}
		for i := 0; i < t.NumOut(); i++ {
			if !isTypeVisible(t.Out(i), seen) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || !isTypeVisible(sf.Type, seen) {
				return false
			}
		}
		return true
	case reflect.Interface:
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			if !m.IsExported() || !isTypeVisible(m.Type, seen) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// typeArgsVisible checks the type arguments of an instantiated generic type
// name such as "Box[example.com/p.item]". reflect exposes the arguments only
// through the name, so every identifier in the bracketed part is checked.
func typeArgsVisible(name string) bool {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return true
	}
	end := strings.LastIndexByte(name, ']')
	if end < open {
		return false
	}
	for _, tok := range strings.FieldsFunc(name[open+1:end], isTypeSeparator) {
		if !identVisible(strings.TrimLeft(tok, "-")) {
			return false
		}
	}
	return true
}

func isTypeSeparator(r rune) bool {
	switch r {
	case '[', ']', '(', ')', '{', '}', '*', ',', ';', '<', ' ':
		return true
	}
	return false
}

// identVisible reports whether one token of a type expression names something
// reachable from outside its package. Qualified tokens are "path.Name".
func identVisible(tok string) bool {
	if tok == "" || unicode.IsDigit(rune(tok[0])) {
		return true
	}
	dot := strings.LastIndexByte(tok, '.')
	if dot < 0 {
		// predeclared identifiers, keywords, or struct field names
		return predeclared[tok] || IsExportedName(tok)
	}
	return IsExportedName(tok[dot+1:]) && !IsInternalPath(tok[:dot])
}

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true, "int": true, "int8": true,
	"int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "uintptr": true,
	"chan": true, "func": true, "interface": true, "map": true, "struct": true,
}
