// Package emitter turns a resolved generation set into JavaScript
// source text: one fromJson/toJson function pair per datatype
// definition, plus the wrapper API surface on top of them.
package emitter

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/modelbind/jsbridge/converter"
	"github.com/modelbind/jsbridge/emitter/jsio"
	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/naming"
	"github.com/modelbind/jsbridge/resolver"
)

// Prelude is the helper code shared by all generated converters. It
// is written once, ahead of the converter functions.
//
//go:embed prelude.js
var Prelude string

// Options selects the output profile and names the two distinguished
// top-level types of the wrapper surface.
type Options struct {
	// Typed selects the typed profile: inline type annotations plus
	// emitted type declarations for every generated definition.
	Typed bool
	// StateType is the aggregate-state type name (fixed conventional
	// name, default "State").
	StateType string
	// EventType is the action/event union type name (default "Event").
	EventType string
	// FunctionsModule qualifies calls to the wrapped functions.
	FunctionsModule string
}

func (o Options) withDefaults() Options {
	if o.StateType == "" {
		o.StateType = "State"
	}
	if o.EventType == "" {
		o.EventType = "Event"
	}
	return o
}

type Emitter struct {
	conv   *naming.Convention
	syn    *converter.Synthesizer
	lookup ir.LookupFunc
	opts   Options
}

// New creates an Emitter. lookup spans all modules and is used to
// classify referenced datatypes during wrapper emission; it may be
// nil, in which case every datatype argument is treated as internal.
func New(conv *naming.Convention, lookup ir.LookupFunc, opts Options) *Emitter {
	if conv == nil {
		conv = naming.Runtime()
	}
	if lookup == nil {
		lookup = func(string) (*ir.DatatypeDefinition, bool) { return nil, false }
	}
	return &Emitter{
		conv:   conv,
		syn:    converter.NewSynthesizer(conv),
		lookup: lookup,
		opts:   opts.withDefaults(),
	}
}

// EmitConverters writes the fromJson/toJson pair for every definition
// in the generation set, in set order.
func (e *Emitter) EmitConverters(cb *jsio.CodeBuilder, set *resolver.GenerationSet) {
	for i, def := range set.Defs {
		if i != 0 {
			cb.Linef("")
		}
		e.emitDefinition(cb, def, converter.FromJson)
		cb.Linef("")
		e.emitDefinition(cb, def, converter.ToJson)
	}
}

func (e *Emitter) emitDefinition(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, dir converter.Direction) {
	cb.Linef("%v {", e.funcHead(def, dir))
	cb.Indent++
	switch def.Class() {
	case ir.ClassErasedWrapper:
		e.emitErasedWrapperBody(cb, def, dir)
	case ir.ClassEnum:
		e.emitEnumBody(cb, def, dir)
	case ir.ClassGeneral:
		e.emitGeneralBody(cb, def, dir)
	default:
		panic("invalid datatype class")
	}
	cb.Indent--
	cb.Linef("}")
}

// funcHead builds the function signature line. Generic definitions
// receive one converter formal per type parameter, in declaration
// order.
func (e *Emitter) funcHead(def *ir.DatatypeDefinition, dir converter.Direction) string {
	name := converter.FuncName(def.Name, dir)
	argName := "v"
	if dir == converter.FromJson {
		argName = "j"
	}
	args := []string{argName}
	for _, p := range def.Params {
		args = append(args, converter.ParamConvName(p, dir))
	}
	if e.opts.Typed {
		in, out := tsValueName(def.Name), tsJsonName(def.Name)
		if dir == converter.FromJson {
			in, out = out, in
		}
		if len(def.Params) > 0 {
			generic := "<" + strings.Repeat("any, ", len(def.Params)-1) + "any>"
			in += generic
			out += generic
		}
		args[0] += ": " + in
		for i := range def.Params {
			args[i+1] += ": (x: any) => any"
		}
		return fmt.Sprintf("function %v(%v): %v", name, strings.Join(args, ", "), out)
	}
	return fmt.Sprintf("function %v(%v)", name, strings.Join(args, ", "))
}

func (e *Emitter) paramConvs(def *ir.DatatypeDefinition, dir converter.Direction) map[string]string {
	if len(def.Params) == 0 {
		return nil
	}
	convs := make(map[string]string, len(def.Params))
	for _, p := range def.Params {
		convs[p] = converter.ParamConvName(p, dir)
	}
	return convs
}

// Erased wrappers marshal as their single field's form: no wrapping
// object on the internal side, a one-key object on the external side.
func (e *Emitter) emitErasedWrapperBody(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, dir converter.Direction) {
	field := def.Variants[0].Fields[0]
	convs := e.paramConvs(def, dir)
	switch dir {
	case converter.FromJson:
		src := "j" + jsAccess(field.Name)
		if m, ok := field.Type.(ir.Map); ok {
			tmp := "_" + naming.Sanitize(field.Name)
			for _, line := range e.syn.MapBlock(dir, m, src, tmp, convs) {
				cb.Append(line)
			}
			cb.Linef("return %v;", tmp)
			return
		}
		cb.Linef("return %v;", e.syn.Synthesize(dir, field.Type, src, convs))
	case converter.ToJson:
		if m, ok := field.Type.(ir.Map); ok {
			tmp := "_" + naming.Sanitize(field.Name)
			for _, line := range e.syn.MapBlock(dir, m, "v", tmp, convs) {
				cb.Append(line)
			}
			cb.Linef("return { %v: %v };", jsKey(field.Name), tmp)
			return
		}
		cb.Linef("return { %v: %v };", jsKey(field.Name), e.syn.Synthesize(dir, field.Type, "v", convs))
	}
}

// Enum-like definitions marshal as the bare variant name string. An
// unknown tag is a hard runtime error in the generated code, never a
// silent default.
func (e *Emitter) emitEnumBody(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, dir converter.Direction) {
	switch dir {
	case converter.FromJson:
		cb.Linef("switch (j) {")
		for _, v := range def.Variants {
			cb.Linef("case %q:", v.Name)
			cb.Indent++
			cb.Linef("return %v();", e.conv.Constructor(def.Module, def.Name, v.Name))
			cb.Indent--
		}
		cb.Linef("default:")
		cb.Indent++
		cb.Linef(`throw new Error("unknown %v variant: " + j);`, def.Name)
		cb.Indent--
		cb.Linef("}")
	case converter.ToJson:
		for _, v := range def.Variants {
			cb.Linef("if (v.%v) {", e.conv.Tester(v.Name))
			cb.Indent++
			cb.Linef("return %q;", v.Name)
			cb.Indent--
			cb.Linef("}")
		}
		cb.Linef(`throw new Error("unknown %v variant");`, def.Name)
	}
}

func (e *Emitter) emitGeneralBody(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, dir converter.Direction) {
	convs := e.paramConvs(def, dir)
	switch dir {
	case converter.FromJson:
		if len(def.Variants) == 1 {
			e.emitVariantFromJson(cb, def, def.Variants[0], convs)
			return
		}
		cb.Linef("switch (j.type) {")
		for _, v := range def.Variants {
			cb.Linef("case %q: {", v.Name)
			cb.Indent++
			e.emitVariantFromJson(cb, def, v, convs)
			cb.Indent--
			cb.Linef("}")
		}
		cb.Linef("default:")
		cb.Indent++
		cb.Linef(`throw new Error("unknown %v variant: " + j.type);`, def.Name)
		cb.Indent--
		cb.Linef("}")
	case converter.ToJson:
		if len(def.Variants) == 1 {
			e.emitVariantToJson(cb, def, def.Variants[0], convs, false)
			return
		}
		for _, v := range def.Variants {
			cb.Linef("if (v.%v) {", e.conv.Tester(v.Name))
			cb.Indent++
			e.emitVariantToJson(cb, def, v, convs, true)
			cb.Indent--
			cb.Linef("}")
		}
		cb.Linef(`throw new Error("unknown %v variant");`, def.Name)
	}
}

// emitVariantFromJson reads each field off the external object by
// name and invokes the internal constructor positionally. Map-kind
// fields convert iteratively in a preceding statement block.
func (e *Emitter) emitVariantFromJson(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, v ir.Variant, convs map[string]string) {
	args := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		src := "j" + jsAccess(f.Name)
		if m, ok := f.Type.(ir.Map); ok {
			tmp := "_" + naming.Sanitize(f.Name)
			for _, line := range e.syn.MapBlock(converter.FromJson, m, src, tmp, convs) {
				cb.Append(line)
			}
			args[i] = tmp
			continue
		}
		args[i] = e.syn.Synthesize(converter.FromJson, f.Type, src, convs)
	}
	cb.Linef("return %v(%v);", e.conv.Constructor(def.Module, def.Name, v.Name), strings.Join(args, ", "))
}

func (e *Emitter) emitVariantToJson(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, v ir.Variant, convs map[string]string, withTag bool) {
	keys := make([]string, 0, len(v.Fields)+1)
	if withTag {
		keys = append(keys, fmt.Sprintf("type: %q", v.Name))
	}
	for _, f := range v.Fields {
		src := "v." + e.conv.Accessor(f.Name)
		if m, ok := f.Type.(ir.Map); ok {
			tmp := "_" + naming.Sanitize(f.Name)
			for _, line := range e.syn.MapBlock(converter.ToJson, m, src, tmp, convs) {
				cb.Append(line)
			}
			keys = append(keys, fmt.Sprintf("%v: %v", jsKey(f.Name), tmp))
			continue
		}
		keys = append(keys, fmt.Sprintf("%v: %v", jsKey(f.Name), e.syn.Synthesize(converter.ToJson, f.Type, src, convs)))
	}
	if len(keys) == 0 {
		cb.Linef("return {};")
		return
	}
	cb.Linef("return { %v };", strings.Join(keys, ", "))
}

// jsKey renders an object literal key, quoting it when it is not a
// valid identifier.
func jsKey(name string) string {
	if isJSIdent(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

// jsAccess renders a property access suffix (".x" or `["x y"]`).
func jsAccess(name string) string {
	if isJSIdent(name) {
		return "." + name
	}
	return fmt.Sprintf("[%q]", name)
}

func isJSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		valid := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !valid {
			return false
		}
	}
	return true
}
