// Package converter synthesizes the per-type JavaScript conversion
// expressions between the typed runtime representation and schema-less
// JSON values.
package converter

import (
	"fmt"
	"strings"

	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/naming"
)

type Direction uint8

const (
	ToJson Direction = iota
	FromJson
)

// String returns the PascalCase string representation ("ToJson" or
// "FromJson"). This is also the converter function name suffix.
func (d Direction) String() string {
	switch d {
	case ToJson:
		return "ToJson"
	case FromJson:
		return "FromJson"
	default:
		panic("invalid conversion direction")
	}
}

// StringCamelCase returns the camelCase string representation
// ("toJson" or "fromJson").
func (d Direction) StringCamelCase() string {
	switch d {
	case ToJson:
		return "toJson"
	case FromJson:
		return "fromJson"
	default:
		panic("invalid conversion direction")
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case ToJson:
		return FromJson
	case FromJson:
		return ToJson
	default:
		panic("invalid conversion direction")
	}
}

// FuncName returns the deterministic converter function name for a
// datatype name, e.g. "statusFromJson". It is derived only from the
// name so call sites can predict it without a lookup table.
func FuncName(typeName string, dir Direction) string {
	return strings.ToLower(naming.Sanitize(typeName)) + dir.String()
}

// ParamConvName returns the formal parameter name under which a
// generic definition's emitted converter receives the converter for
// type parameter param, e.g. "tFromJson".
func ParamConvName(param string, dir Direction) string {
	return strings.ToLower(naming.Sanitize(param)) + dir.String()
}

// Synthesizer produces conversion expressions. The naming convention
// is injected; the synthesizer never hard-codes runtime identifiers
// for datatype members.
type Synthesizer struct {
	Conv *naming.Convention
}

func NewSynthesizer(conv *naming.Convention) *Synthesizer {
	return &Synthesizer{Conv: conv}
}

// Synthesize returns a JavaScript expression converting the value
// held in the expression src in the given direction. paramConvs maps
// generic type parameter names to converter-valued expressions; a
// parameter without an entry converts as the identity.
//
// Synthesis never fails: unrecognized descriptors degrade to the
// identity conversion.
func (s *Synthesizer) Synthesize(dir Direction, t ir.Type, src string, paramConvs map[string]string) string {
	return s.synthesize(dir, t, src, paramConvs, 0)
}

// IsIdentity reports whether the conversion for t is syntactically
// the identity, i.e. synthesizing it echoes the source expression
// verbatim. Sequence and set conversions use this to skip element
// mapping entirely.
func (s *Synthesizer) IsIdentity(dir Direction, t ir.Type, paramConvs map[string]string) bool {
	const probe = "_probe"
	return s.synthesize(dir, t, probe, paramConvs, 0) == probe
}

// depth numbers the helper variables of nested closures (_e0, _e1,
// ...) so inner conversions never capture an outer loop variable.
func (s *Synthesizer) synthesize(dir Direction, t ir.Type, src string, paramConvs map[string]string, depth int) string {
	switch t := t.(type) {
	case ir.Int:
		// No range validation; conversion trusts input.
		switch dir {
		case ToJson:
			return fmt.Sprintf("(%v).toNumber()", src)
		case FromJson:
			return fmt.Sprintf("new _rt.BigNumber(%v)", src)
		}
	case ir.Bool:
		return src
	case ir.String:
		switch dir {
		case ToJson:
			// _toStr accepts plain strings as well as sequence-like
			// values (see prelude).
			return fmt.Sprintf("_toStr(%v)", src)
		case FromJson:
			return fmt.Sprintf("_rt.Seq.UnicodeFromString(%v)", src)
		}
	case ir.Seq:
		return s.synthesizeSeq(dir, t.Elem, src, paramConvs, depth,
			"_rt.Seq.of(...%v)", "(%v).toArray()")
	case ir.Set:
		return s.synthesizeSeq(dir, t.Elem, src, paramConvs, depth,
			"_rt.Set.fromElements(...%v)", "Array.from((%v).Elements)")
	case ir.Tuple:
		if len(t.Elems) == 0 {
			return src
		}
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = s.synthesize(dir, e, fmt.Sprintf("(%v)[%v]", src, i), paramConvs, depth)
		}
		switch dir {
		case ToJson:
			return fmt.Sprintf("[%v]", strings.Join(elems, ", "))
		case FromJson:
			return fmt.Sprintf("_rt.Tuple%v(%v)", len(t.Elems), strings.Join(elems, ", "))
		}
	case ir.Map:
		// In expression position the iterative map conversion is
		// wrapped in an IIFE. Field emission prefers the statement
		// form (see MapBlock).
		m := fmt.Sprintf("_m%v", depth)
		var b strings.Builder
		fmt.Fprintf(&b, "((%v) => { ", m)
		for _, line := range s.mapStmts(dir, t, m, "_r", paramConvs, depth+1) {
			b.WriteString(line)
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "return _r; })(%v)", src)
		return b.String()
	case ir.Named:
		args := make([]string, 0, len(t.Args)+1)
		args = append(args, src)
		for _, arg := range t.Args {
			x := fmt.Sprintf("_x%v", depth)
			inner := s.synthesize(dir, arg, x, paramConvs, depth+1)
			args = append(args, fmt.Sprintf("(%v) => %v", x, inner))
		}
		return fmt.Sprintf("%v(%v)", FuncName(t.Name, dir), strings.Join(args, ", "))
	case ir.Param:
		if conv, ok := paramConvs[t.Name]; ok {
			return fmt.Sprintf("%v(%v)", conv, src)
		}
		// No converter supplied: the parameter is structurally unused
		// by the caller, degrade to identity.
		return src
	case ir.Opaque:
		return src
	}
	// Unrecognized descriptors pass through unconverted.
	return src
}

func (s *Synthesizer) synthesizeSeq(dir Direction, elem ir.Type, src string, paramConvs map[string]string, depth int, fromWrap, toUnwrap string) string {
	e := fmt.Sprintf("_e%v", depth)
	elemConv := s.synthesize(dir, elem, e, paramConvs, depth+1)
	identity := elemConv == e
	switch dir {
	case ToJson:
		arr := fmt.Sprintf(toUnwrap, src)
		if identity {
			return arr
		}
		return fmt.Sprintf("%v.map((%v) => %v)", arr, e, elemConv)
	case FromJson:
		// A missing external value converts to the empty sequence.
		arr := fmt.Sprintf("((%v) ?? [])", src)
		if !identity {
			arr = fmt.Sprintf("%v.map((%v) => %v)", arr, e, elemConv)
		}
		return fmt.Sprintf(fromWrap, arr)
	default:
		panic("invalid conversion direction")
	}
}

// MapBlock writes the iterative conversion of an associative
// container as statements, leaving the converted value in the
// variable named tmp. The external representation is a string-keyed
// object; the internal map is built through incremental updates so
// that keys whose internal form is not a valid object key still
// convert correctly.
func (s *Synthesizer) MapBlock(dir Direction, t ir.Map, src, tmp string, paramConvs map[string]string) []string {
	return s.mapStmts(dir, t, src, tmp, paramConvs, 0)
}

func (s *Synthesizer) mapStmts(dir Direction, t ir.Map, src, tmp string, paramConvs map[string]string, depth int) []string {
	k := fmt.Sprintf("_k%v", depth)
	switch dir {
	case FromJson:
		keyConv := s.synthesize(FromJson, t.Key, k, paramConvs, depth+1)
		valConv := s.synthesize(FromJson, t.Val, fmt.Sprintf("(%v)[%v]", src, k), paramConvs, depth+1)
		return []string{
			fmt.Sprintf("let %v = _rt.Map.Empty;", tmp),
			fmt.Sprintf("for (const %v of Object.keys((%v) ?? {})) {", k, src),
			fmt.Sprintf("\t%v = %v.update(%v, %v);", tmp, tmp, keyConv, valConv),
			"}",
		}
	case ToJson:
		keyConv := s.synthesize(ToJson, t.Key, k, paramConvs, depth+1)
		valConv := s.synthesize(ToJson, t.Val, fmt.Sprintf("(%v).get(%v)", src, k), paramConvs, depth+1)
		return []string{
			fmt.Sprintf("const %v = {};", tmp),
			fmt.Sprintf("for (const %v of (%v).Keys.Elements) {", k, src),
			fmt.Sprintf("\t%v[%v] = %v;", tmp, keyConv, valConv),
			"}",
		}
	default:
		panic("invalid conversion direction")
	}
}
