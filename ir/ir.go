// Package ir defines the type descriptor model shared by the
// resolver, converter and emitter packages: structural type
// descriptors, datatype (tagged union) definitions and function
// signatures.
//
// Descriptors are finite trees. Cycles only exist in the definition
// graph, which is reached through name lookup ([LookupFunc]), never
// through descriptor nesting.
package ir

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindInt Kind = iota
	KindBool
	KindString
	KindSeq
	KindSet
	KindMap
	KindTuple
	KindNamed
	KindParam
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindSeq:
		return "seq"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindNamed:
		return "named"
	case KindParam:
		return "param"
	case KindOpaque:
		return "opaque"
	default:
		panic("invalid type descriptor kind")
	}
}

// Type is the sealed descriptor interface. Adding a kind means
// extending every exhaustive switch that dispatches on it.
type Type interface {
	Kind() Kind
	String() string
	sealed()
}

type Int struct{}

type Bool struct{}

type String struct{}

// Opaque is a pass-through type: values cross the marshalling
// boundary unconverted in both directions.
type Opaque struct {
	Name string
}

type Seq struct {
	Elem Type
}

type Set struct {
	Elem Type
}

type Map struct {
	Key Type
	Val Type
}

type Tuple struct {
	Elems []Type
}

// Named references a datatype definition by name. Args carries the
// generic type arguments, if any.
type Named struct {
	Name string
	Args []Type
}

// Param references a generic type parameter of the enclosing
// definition by name.
type Param struct {
	Name string
}

func (Int) Kind() Kind    { return KindInt }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }
func (Opaque) Kind() Kind { return KindOpaque }
func (Seq) Kind() Kind    { return KindSeq }
func (Set) Kind() Kind    { return KindSet }
func (Map) Kind() Kind    { return KindMap }
func (Tuple) Kind() Kind  { return KindTuple }
func (Named) Kind() Kind  { return KindNamed }
func (Param) Kind() Kind  { return KindParam }

func (Int) sealed()    {}
func (Bool) sealed()   {}
func (String) sealed() {}
func (Opaque) sealed() {}
func (Seq) sealed()    {}
func (Set) sealed()    {}
func (Map) sealed()    {}
func (Tuple) sealed()  {}
func (Named) sealed()  {}
func (Param) sealed()  {}

func (Int) String() string    { return "int" }
func (Bool) String() string   { return "bool" }
func (String) String() string { return "string" }

func (t Opaque) String() string {
	if t.Name == "" {
		return "opaque"
	}
	return "opaque(" + t.Name + ")"
}

func (t Seq) String() string { return "seq[" + t.Elem.String() + "]" }
func (t Set) String() string { return "set[" + t.Elem.String() + "]" }

func (t Map) String() string {
	return "map[" + t.Key.String() + ", " + t.Val.String() + "]"
}

func (t Tuple) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func (t Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "[" + strings.Join(args, ", ") + "]"
}

func (t Param) String() string { return t.Name }

// SeqOf, SetOf, MapOf, TupleOf, Ref and TypeParam are convenience
// constructors, mainly for tests and hand-built models.
func SeqOf(elem Type) Seq         { return Seq{Elem: elem} }
func SetOf(elem Type) Set         { return Set{Elem: elem} }
func MapOf(key, val Type) Map     { return Map{Key: key, Val: val} }
func TupleOf(elems ...Type) Tuple { return Tuple{Elems: elems} }
func TypeParam(name string) Param { return Param{Name: name} }

func Ref(name string, args ...Type) Named {
	return Named{Name: name, Args: args}
}

// Field is a named, typed variant member.
type Field struct {
	Name string
	Type Type
}

// Variant is one alternative of a datatype definition.
type Variant struct {
	Name   string
	Fields []Field
}

// DatatypeDefinition is a named tagged union. It is constructed once
// by the model source and read-only afterwards.
type DatatypeDefinition struct {
	Module string
	Name   string
	// Params holds generic type parameter names in declaration order.
	Params   []string
	Variants []Variant
}

// Class is the derived conversion classification of a definition.
type Class uint8

const (
	// ClassGeneral definitions marshal to an object tagged with a
	// variant discriminant plus one key per field.
	ClassGeneral Class = iota
	// ClassErasedWrapper definitions (one variant, one field) marshal
	// as their single field's form with no wrapping object.
	ClassErasedWrapper
	// ClassEnum definitions (several variants, all nullary) marshal as
	// the bare variant name string.
	ClassEnum
)

func (c Class) String() string {
	switch c {
	case ClassGeneral:
		return "general"
	case ClassErasedWrapper:
		return "erased wrapper"
	case ClassEnum:
		return "enum"
	default:
		panic("invalid datatype class")
	}
}

// Class computes the definition's conversion classification. It is
// derived, never stored.
func (d *DatatypeDefinition) Class() Class {
	if len(d.Variants) == 1 && len(d.Variants[0].Fields) == 1 {
		return ClassErasedWrapper
	}
	if len(d.Variants) > 1 {
		for _, v := range d.Variants {
			if len(v.Fields) > 0 {
				return ClassGeneral
			}
		}
		return ClassEnum
	}
	return ClassGeneral
}

func (d *DatatypeDefinition) String() string {
	return fmt.Sprintf("%v.%v", d.Module, d.Name)
}

// ParamDecl is a named function parameter.
type ParamDecl struct {
	Name string
	Type Type
}

// FunctionSignature describes a typed pure function to be wrapped.
// Signatures seed the reference closure and drive wrapper emission;
// they are never themselves converted.
type FunctionSignature struct {
	Module string
	Name   string
	Params []ParamDecl
	Result Type
}

// LookupFunc resolves a datatype name to its definition, spanning all
// modules of the model. Returning false means the name is external or
// opaque; closure expansion skips it silently.
type LookupFunc func(name string) (*DatatypeDefinition, bool)

// Model is the complete generator input produced by the model source:
// the root module's definitions, definitions from other modules, and
// the function surface.
type Model struct {
	// Module is the root/domain module name.
	Module string
	// FunctionsModule is the function-surface module name.
	FunctionsModule string
	// Datatypes holds all definitions in declaration order, root
	// module and otherwise.
	Datatypes []*DatatypeDefinition
	Functions []FunctionSignature
}

// RootDefinitions returns the root module's definitions in
// declaration order.
func (m *Model) RootDefinitions() []*DatatypeDefinition {
	var defs []*DatatypeDefinition
	for _, d := range m.Datatypes {
		if d.Module == m.Module {
			defs = append(defs, d)
		}
	}
	return defs
}

// Lookup returns a name lookup spanning all of the model's modules.
// On a bare-name tie the root module's definition wins; collision
// handling between the rest is the resolver's concern.
func (m *Model) Lookup() LookupFunc {
	byName := map[string][]*DatatypeDefinition{}
	for _, d := range m.Datatypes {
		byName[d.Name] = append(byName[d.Name], d)
	}
	return func(name string) (*DatatypeDefinition, bool) {
		defs := byName[name]
		if len(defs) == 0 {
			return nil, false
		}
		for _, d := range defs {
			if d.Module == m.Module {
				return d, true
			}
		}
		return defs[0], true
	}
}

// LookupAll returns every definition sharing the given bare name, in
// declaration order. The resolver uses this to detect ambiguous
// collisions that a single-result lookup would hide.
func (m *Model) LookupAll(name string) []*DatatypeDefinition {
	var defs []*DatatypeDefinition
	for _, d := range m.Datatypes {
		if d.Name == name {
			defs = append(defs, d)
		}
	}
	return defs
}
