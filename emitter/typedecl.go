package emitter

import (
	"fmt"
	"strings"

	"github.com/modelbind/jsbridge/emitter/jsio"
	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/resolver"
)

// The typed profile emits two type-declaration views per generated
// definition: the external JSON shape (<Name>Json) and the internal
// runtime shape (<Name>Value).

func tsJsonName(name string) string  { return name + "Json" }
func tsValueName(name string) string { return name + "Value" }

// EmitTypeDecls writes the declaration pairs for every definition in
// the generation set, deduplicated by name like the export surface.
func (e *Emitter) EmitTypeDecls(cb *jsio.CodeBuilder, set *resolver.GenerationSet) {
	seen := map[string]bool{}
	for _, def := range set.Defs {
		lc := strings.ToLower(def.Name)
		if seen[lc] {
			continue
		}
		seen[lc] = true
		e.emitTypeDecl(cb, def)
	}
}

func (e *Emitter) emitTypeDecl(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition) {
	generic := ""
	if len(def.Params) > 0 {
		generic = "<" + strings.Join(def.Params, ", ") + ">"
	}

	cb.Linef("export type %v%v = %v;", tsJsonName(def.Name), generic, e.tsJsonDecl(def))
	cb.Linef("export type %v%v = %v;", tsValueName(def.Name), generic, e.tsValueDecl(def))
}

func (e *Emitter) tsJsonDecl(def *ir.DatatypeDefinition) string {
	switch def.Class() {
	case ir.ClassEnum:
		names := make([]string, len(def.Variants))
		for i, v := range def.Variants {
			names[i] = fmt.Sprintf("%q", v.Name)
		}
		return strings.Join(names, " | ")
	case ir.ClassErasedWrapper:
		f := def.Variants[0].Fields[0]
		return fmt.Sprintf("{ %v: %v }", jsKey(f.Name), tsExternal(f.Type))
	default:
		withTag := len(def.Variants) > 1
		shapes := make([]string, len(def.Variants))
		for i, v := range def.Variants {
			keys := make([]string, 0, len(v.Fields)+1)
			if withTag {
				keys = append(keys, fmt.Sprintf("type: %q", v.Name))
			}
			for _, f := range v.Fields {
				keys = append(keys, fmt.Sprintf("%v: %v", jsKey(f.Name), tsExternal(f.Type)))
			}
			if len(keys) == 0 {
				shapes[i] = "{}"
			} else {
				shapes[i] = "{ " + strings.Join(keys, "; ") + " }"
			}
		}
		return strings.Join(shapes, " | ")
	}
}

func (e *Emitter) tsValueDecl(def *ir.DatatypeDefinition) string {
	switch def.Class() {
	case ir.ClassEnum:
		keys := make([]string, len(def.Variants))
		for i, v := range def.Variants {
			keys[i] = fmt.Sprintf("%v: boolean", e.conv.Tester(v.Name))
		}
		return "{ " + strings.Join(keys, "; ") + " }"
	case ir.ClassErasedWrapper:
		return tsValue(def.Variants[0].Fields[0].Type)
	default:
		shapes := make([]string, len(def.Variants))
		for i, v := range def.Variants {
			keys := make([]string, 0, len(v.Fields)+1)
			keys = append(keys, fmt.Sprintf("%v: boolean", e.conv.Tester(v.Name)))
			for _, f := range v.Fields {
				keys = append(keys, fmt.Sprintf("%v: %v", e.conv.Accessor(f.Name), tsValue(f.Type)))
			}
			shapes[i] = "{ " + strings.Join(keys, "; ") + " }"
		}
		return strings.Join(shapes, " | ")
	}
}

// tsExternal renders the TypeScript type of a descriptor's external
// JSON representation.
func tsExternal(t ir.Type) string {
	switch t := t.(type) {
	case ir.Int:
		return "number"
	case ir.Bool:
		return "boolean"
	case ir.String:
		return "string"
	case ir.Seq:
		return tsExternal(t.Elem) + "[]"
	case ir.Set:
		return tsExternal(t.Elem) + "[]"
	case ir.Map:
		return fmt.Sprintf("{ [key: string]: %v }", tsExternal(t.Val))
	case ir.Tuple:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = tsExternal(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ir.Named:
		if len(t.Args) == 0 {
			return tsJsonName(t.Name)
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = tsExternal(a)
		}
		return tsJsonName(t.Name) + "<" + strings.Join(args, ", ") + ">"
	case ir.Param:
		return t.Name
	case ir.Opaque:
		return "any"
	}
	return "any"
}

// tsValue renders the TypeScript type of a descriptor's internal
// runtime representation.
func tsValue(t ir.Type) string {
	switch t := t.(type) {
	case ir.Int:
		return "_rt.BigNumber"
	case ir.Bool:
		return "boolean"
	case ir.String:
		return "_rt.Seq"
	case ir.Seq:
		return "_rt.Seq"
	case ir.Set:
		return "_rt.Set"
	case ir.Map:
		return "_rt.Map"
	case ir.Tuple:
		return "any[]"
	case ir.Named:
		if len(t.Args) == 0 {
			return tsValueName(t.Name)
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = tsValue(a)
		}
		return tsValueName(t.Name) + "<" + strings.Join(args, ", ") + ">"
	case ir.Param:
		return t.Name
	case ir.Opaque:
		return "any"
	}
	return "any"
}
