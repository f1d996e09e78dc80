// Package naming holds the identifier conventions applied to
// generated code. The convention is injected into the converter and
// emitter packages so the core can be retargeted to a different
// runtime's naming scheme without touching any conversion logic.
package naming

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Convention maps model names to the identifiers the typed-value
// runtime actually expects. All functions are pure.
type Convention struct {
	// Mangle rewrites a variant or field name into the runtime's form.
	// It is applied after [Sanitize].
	Mangle func(name string) string
	// TypeRef produces the expression referring to a datatype's
	// runtime namespace, e.g. "Model.Shape".
	TypeRef func(module, typ string) string
	// Constructor produces the expression referring to a variant's
	// runtime constructor function.
	Constructor func(module, typ, variant string) string
	// Tester produces the property name testing for a variant.
	Tester func(variant string) string
	// Accessor produces the property name reading a field.
	Accessor func(field string) string
}

// Sanitize replaces every character that is invalid in an identifier
// (notably the markers compilers use in synthesized tuple type names)
// with an underscore.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		valid := r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if valid {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Runtime is the default convention: constructors are exposed as
// <Module>.<Type>.create_<Variant>, variant testers as is_<Variant>
// and field accessors as dtor_<field>.
func Runtime() *Convention {
	mangle := Sanitize
	typeRef := func(module, typ string) string {
		if module == "" {
			return Sanitize(typ)
		}
		return Sanitize(module) + "." + Sanitize(typ)
	}
	return &Convention{
		Mangle:  mangle,
		TypeRef: typeRef,
		Constructor: func(module, typ, variant string) string {
			return typeRef(module, typ) + ".create_" + mangle(variant)
		},
		Tester: func(variant string) string {
			return "is_" + mangle(variant)
		},
		Accessor: func(field string) string {
			return "dtor_" + mangle(field)
		},
	}
}

// CamelCase is an alternative convention for runtimes exposing
// camel-cased factory functions (mk<Variant>) and plain lower-camel
// property access.
func CamelCase() *Convention {
	mangle := func(name string) string {
		return strcase.ToLowerCamel(Sanitize(name))
	}
	typeRef := func(module, typ string) string {
		if module == "" {
			return Sanitize(typ)
		}
		return Sanitize(module) + "." + Sanitize(typ)
	}
	return &Convention{
		Mangle:  mangle,
		TypeRef: typeRef,
		Constructor: func(module, typ, variant string) string {
			return typeRef(module, typ) + ".mk" + strcase.ToCamel(Sanitize(variant))
		},
		Tester: func(variant string) string {
			return "is" + strcase.ToCamel(Sanitize(variant))
		},
		Accessor: func(field string) string {
			return mangle(field)
		},
	}
}

// ByName returns a built-in convention by its config name.
func ByName(name string) (*Convention, bool) {
	switch name {
	case "", "runtime":
		return Runtime(), true
	case "camel":
		return CamelCase(), true
	default:
		return nil, false
	}
}
