package emitter

import (
	"strings"

	"github.com/modelbind/jsbridge/converter"
	"github.com/modelbind/jsbridge/emitter/jsio"
	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/naming"
	"github.com/modelbind/jsbridge/resolver"
	"github.com/modelbind/jsbridge/textutils"
)

// EmitWrapper writes the convenience API surface on top of the
// emitted converters: variant constructors, event constructors, state
// accessors, function call wrappers and the per-type toJson/fromJson
// exports.
func (e *Emitter) EmitWrapper(cb *jsio.CodeBuilder, set *resolver.GenerationSet, sigs []ir.FunctionSignature) {
	cb.Linef("const api = {};")

	used := map[string]bool{}

	var stateDef, eventDef *ir.DatatypeDefinition
	for _, def := range set.Defs {
		switch def.Name {
		case e.opts.StateType:
			stateDef = def
		case e.opts.EventType:
			eventDef = def
		}
	}

	// Constructors for everything except the two distinguished types.
	for _, def := range set.Defs {
		if def == stateDef || def == eventDef {
			continue
		}
		for _, v := range def.Variants {
			e.emitConstructor(cb, def, v, used)
		}
	}

	// Event constructors: datatype-typed fields flow through as
	// internal values, everything else converts.
	if eventDef != nil {
		for _, v := range eventDef.Variants {
			e.emitConstructor(cb, eventDef, v, used)
		}
	}

	// State accessors.
	if stateDef != nil && len(stateDef.Variants) == 1 {
		for _, f := range stateDef.Variants[0].Fields {
			e.emitStateAccessor(cb, stateDef, f, used)
		}
	}

	// Call wrappers for signatures not already covered by the surface
	// above, to avoid duplicate entry points.
	for _, sig := range sigs {
		if used[naming.Sanitize(sig.Name)] {
			continue
		}
		e.emitCallWrapper(cb, sig, used)
	}

	e.emitExports(cb, set)
}

// emitConstructor writes one callable per variant. External-form
// arguments convert to internal form; arguments whose declared type
// is a non-erased datatype pass through unconverted, since callers
// obtained those values from this same API.
func (e *Emitter) emitConstructor(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, v ir.Variant, used map[string]bool) {
	name := naming.Sanitize(v.Name)
	if used[name] {
		// A variant name shared between two generated types: qualify
		// the later one.
		name = naming.Sanitize(def.Name) + "_" + name
		if used[name] {
			return
		}
	}
	used[name] = true

	params := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		params[i] = naming.Sanitize(f.Name)
		if e.opts.Typed {
			params[i] += ": " + e.tsExternalParam(f.Type)
		}
	}
	ret := ""
	if e.opts.Typed {
		ret = ": " + tsValueName(def.Name)
		if len(def.Params) > 0 {
			ret += "<" + strings.Repeat("any, ", len(def.Params)-1) + "any>"
		}
	}

	cb.Linef("api.%v = function(%v)%v {", name, strings.Join(params, ", "), ret)
	cb.Indent++
	args := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		arg := naming.Sanitize(f.Name)
		if e.passThrough(f.Type) {
			args[i] = arg
			continue
		}
		if m, ok := f.Type.(ir.Map); ok {
			tmp := "_" + arg
			for _, line := range e.syn.MapBlock(converter.FromJson, m, arg, tmp, nil) {
				cb.Append(line)
			}
			args[i] = tmp
			continue
		}
		args[i] = e.syn.Synthesize(converter.FromJson, f.Type, arg, nil)
	}
	cb.Linef("return %v(%v);", e.conv.Constructor(def.Module, def.Name, v.Name), strings.Join(args, ", "))
	cb.Indent--
	cb.Linef("};")
}

// passThrough reports whether values of t cross the wrapper boundary
// unconverted: non-erased datatypes (already internal-form values)
// and opaque types.
func (e *Emitter) passThrough(t ir.Type) bool {
	switch t := t.(type) {
	case ir.Opaque:
		return true
	case ir.Named:
		if def, ok := e.lookup(t.Name); ok {
			return def.Class() != ir.ClassErasedWrapper
		}
		// Unresolvable names are external types; treat as internal.
		return true
	default:
		return false
	}
}

// emitStateAccessor writes one read-accessor per state field.
// Associative-container fields get a two-argument lookup accessor
// instead of a whole-map conversion.
func (e *Emitter) emitStateAccessor(cb *jsio.CodeBuilder, def *ir.DatatypeDefinition, f ir.Field, used map[string]bool) {
	name := "Get" + textutils.UpperFirst(naming.Sanitize(f.Name))
	if used[name] {
		return
	}
	used[name] = true

	stateParam := "state"
	stateType := ""
	if e.opts.Typed {
		stateType = ": " + tsValueName(def.Name)
	}
	read := stateParam + "." + e.conv.Accessor(f.Name)

	if m, ok := f.Type.(ir.Map); ok {
		keyParam := "key"
		keyType := ""
		if e.opts.Typed {
			keyType = ": " + e.tsExternalParam(m.Key)
		}
		cb.Linef("api.%v = function(%v%v, %v%v) {", name, stateParam, stateType, keyParam, keyType)
		cb.Indent++
		cb.Linef("const _k = %v;", e.syn.Synthesize(converter.FromJson, m.Key, keyParam, nil))
		cb.Linef("const _m = %v;", read)
		cb.Linef("if (_m.contains(_k)) {")
		cb.Indent++
		cb.Linef("return %v;", e.syn.Synthesize(converter.ToJson, m.Val, "_m.get(_k)", nil))
		cb.Indent--
		cb.Linef("}")
		cb.Linef("return null;")
		cb.Indent--
		cb.Linef("};")
		return
	}

	cb.Linef("api.%v = function(%v%v) {", name, stateParam, stateType)
	cb.Indent++
	cb.Linef("return %v;", e.syn.Synthesize(converter.ToJson, f.Type, read, nil))
	cb.Indent--
	cb.Linef("};")
}

// emitCallWrapper writes a callable that converts arguments in,
// invokes the wrapped function and converts the result out. Integers,
// strings and sequences convert to external form; everything else is
// returned as the raw internal value.
func (e *Emitter) emitCallWrapper(cb *jsio.CodeBuilder, sig ir.FunctionSignature, used map[string]bool) {
	name := naming.Sanitize(sig.Name)
	if used[name] {
		return
	}
	used[name] = true

	params := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = naming.Sanitize(p.Name)
		if e.opts.Typed {
			params[i] += ": " + e.tsExternalParam(p.Type)
		}
	}

	cb.Linef("api.%v = function(%v) {", name, strings.Join(params, ", "))
	cb.Indent++
	args := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		arg := naming.Sanitize(p.Name)
		if e.passThrough(p.Type) {
			args[i] = arg
			continue
		}
		if m, ok := p.Type.(ir.Map); ok {
			tmp := "_" + arg
			for _, line := range e.syn.MapBlock(converter.FromJson, m, arg, tmp, nil) {
				cb.Append(line)
			}
			args[i] = tmp
			continue
		}
		args[i] = e.syn.Synthesize(converter.FromJson, p.Type, arg, nil)
	}

	callee := naming.Sanitize(sig.Name)
	if sig.Module != "" {
		callee = naming.Sanitize(sig.Module) + "." + callee
	}
	cb.Linef("const _r = %v(%v);", callee, strings.Join(args, ", "))
	cb.Linef("return %v;", e.resultExpr(sig.Result))
	cb.Indent--
	cb.Linef("};")
}

func (e *Emitter) resultExpr(t ir.Type) string {
	switch t.(type) {
	case ir.Int, ir.String, ir.Seq:
		return e.syn.Synthesize(converter.ToJson, t, "_r", nil)
	default:
		// Callers needing external form call the relevant toJson
		// converter explicitly.
		return "_r"
	}
}

// emitExports writes one toJson/fromJson export per distinct
// lower-cased type name actually generated. Two set entries that
// collapsed to the same external name export once, mirroring the
// resolver's dedup policy.
func (e *Emitter) emitExports(cb *jsio.CodeBuilder, set *resolver.GenerationSet) {
	seen := map[string]bool{}
	for _, def := range set.Defs {
		lc := strings.ToLower(naming.Sanitize(def.Name))
		if seen[lc] {
			continue
		}
		seen[lc] = true
		cb.Linef("api.%v = %v;", converter.FuncName(def.Name, converter.ToJson), converter.FuncName(def.Name, converter.ToJson))
		cb.Linef("api.%v = %v;", converter.FuncName(def.Name, converter.FromJson), converter.FuncName(def.Name, converter.FromJson))
	}
}

func (e *Emitter) tsExternalParam(t ir.Type) string {
	if e.passThrough(t) {
		if n, ok := t.(ir.Named); ok {
			return tsValueName(n.Name)
		}
		return "any"
	}
	return tsExternal(t)
}
