// Package resolver computes the generation set: the deduplicated,
// ordered list of datatype definitions that need emitted converter
// pairs for a given function surface.
package resolver

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/modelbind/jsbridge/digraphutils"
	"github.com/modelbind/jsbridge/ir"
)

// CollisionError reports two differently-shaped definitions sharing a
// bare name within one generation set. The set is ambiguous: call
// sites reference types by short name only, so no output is produced.
type CollisionError struct {
	Name    string
	ModuleA string
	ModuleB string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("ambiguous type %q: modules %v and %v define structurally different types with that name",
		e.Name, e.ModuleA, e.ModuleB)
}

// GenerationSet is the resolved output: root-module definitions in
// declaration order, followed by accepted non-root definitions in
// first-discovered order. Notes carries informational diagnostics
// (duplicate merges); it never blocks generation.
type GenerationSet struct {
	Defs  []*ir.DatatypeDefinition
	Notes []string
}

// LookupAllFunc returns every definition sharing a bare name, across
// all modules. An empty result means the name is external or opaque
// and is skipped silently during expansion.
type LookupAllFunc func(name string) []*ir.DatatypeDefinition

// Resolve expands the closure of datatype references reachable from
// the signatures and the root-module definitions.
//
// Termination on cyclic definition graphs is guaranteed by the
// resolved-name set: each name is expanded at most once, and the set
// of distinct names is finite. The walk is a worklist, not recursion
// on the descriptor tree.
func Resolve(rootDefs []*ir.DatatypeDefinition, sigs []ir.FunctionSignature, lookup LookupAllFunc) (*GenerationSet, error) {
	set := &GenerationSet{}
	accepted := map[string]*ir.DatatypeDefinition{}

	// pending names whose definitions still need field expansion
	var pending []string
	expanded := map[string]bool{}

	// Root-module definitions are included unconditionally, in
	// declaration order.
	for _, d := range rootDefs {
		accepted[d.Name] = d
		set.Defs = append(set.Defs, d)
		pending = append(pending, d.Name)
	}

	// accept resolves all same-named candidates for a newly
	// discovered name against the already-included definition, per
	// the first-seen-wins policy.
	accept := func(name string) error {
		cands := lookup(name)
		if len(cands) == 0 {
			// External or opaque type: no definition, no expansion.
			return nil
		}
		for _, cand := range cands {
			prev, ok := accepted[name]
			if !ok {
				accepted[name] = cand
				set.Defs = append(set.Defs, cand)
				pending = append(pending, name)
				continue
			}
			if prev == cand {
				continue
			}
			if structurallyIdentical(prev, cand) {
				set.Notes = append(set.Notes, fmt.Sprintf(
					"merged duplicate type %v.%v (structurally identical to %v.%v)",
					cand.Module, cand.Name, prev.Module, prev.Name))
				continue
			}
			return &CollisionError{Name: name, ModuleA: prev.Module, ModuleB: cand.Module}
		}
		return nil
	}

	// Seed with every datatype reachable directly from the
	// signatures' parameter and return types.
	for _, sig := range sigs {
		var names []string
		for _, p := range sig.Params {
			names = collectNamed(p.Type, names)
		}
		names = collectNamed(sig.Result, names)
		for _, name := range names {
			if err := accept(name); err != nil {
				return nil, err
			}
		}
	}

	// Worklist expansion over variant fields.
	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		if expanded[name] {
			continue
		}
		expanded[name] = true
		def := accepted[name]
		var names []string
		for _, v := range def.Variants {
			for _, f := range v.Fields {
				names = collectNamed(f.Type, names)
			}
		}
		for _, n := range names {
			if err := accept(n); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// collectNamed appends the names of all datatype references in t,
// looking through containers, tuples and type arguments.
func collectNamed(t ir.Type, names []string) []string {
	switch t := t.(type) {
	case ir.Seq:
		names = collectNamed(t.Elem, names)
	case ir.Set:
		names = collectNamed(t.Elem, names)
	case ir.Map:
		names = collectNamed(t.Key, names)
		names = collectNamed(t.Val, names)
	case ir.Tuple:
		for _, e := range t.Elems {
			names = collectNamed(e, names)
		}
	case ir.Named:
		names = append(names, t.Name)
		for _, a := range t.Args {
			names = collectNamed(a, names)
		}
	}
	return names
}

// structurallyIdentical compares two definitions variant by variant
// and field by field. Field types are compared by name and kind only;
// the check deliberately does not recurse into type arguments.
// Deepening it would turn previously accepted merges into collision
// errors.
func structurallyIdentical(a, b *ir.DatatypeDefinition) bool {
	if len(a.Variants) != len(b.Variants) {
		return false
	}
	for i := range a.Variants {
		va, vb := a.Variants[i], b.Variants[i]
		if va.Name != vb.Name || len(va.Fields) != len(vb.Fields) {
			return false
		}
		for j := range va.Fields {
			fa, fb := va.Fields[j], vb.Fields[j]
			if fa.Name != fb.Name {
				return false
			}
			if fa.Type.Kind() != fb.Type.Kind() {
				return false
			}
			if shallowTypeName(fa.Type) != shallowTypeName(fb.Type) {
				return false
			}
		}
	}
	return true
}

func shallowTypeName(t ir.Type) string {
	switch t := t.(type) {
	case ir.Named:
		return t.Name
	case ir.Param:
		return t.Name
	case ir.Opaque:
		return t.Name
	default:
		return ""
	}
}

// DebugDOTCode generates DOT (graphviz) code for the type reference
// graph of the generation set. If nodeRe is non-nil, only definitions
// whose qualified name matches are used as roots and the graph is
// restricted to what they reach.
func (s *GenerationSet) DebugDOTCode(nodeRe *regexp.Regexp) []byte {
	const graphName = "type_graph"
	byName := map[string]*ir.DatatypeDefinition{}
	for _, d := range s.Defs {
		byName[d.Name] = d
	}

	edges := func(name string) []string {
		def, ok := byName[name]
		if !ok {
			return nil
		}
		var names []string
		for _, v := range def.Variants {
			for _, f := range v.Fields {
				names = collectNamed(f.Type, names)
			}
		}
		names = slices.DeleteFunc(names, func(n string) bool {
			_, ok := byName[n]
			return !ok
		})
		slices.Sort(names)
		return slices.Compact(names)
	}

	var roots []string
	for _, d := range s.Defs {
		if nodeRe == nil || nodeRe.MatchString(d.String()) {
			roots = append(roots, d.Name)
		}
	}
	reachable := digraphutils.Reachable(roots, edges)

	reachableNames := make([]string, 0, len(reachable))
	for name := range reachable {
		reachableNames = append(reachableNames, name)
	}
	slices.Sort(reachableNames)

	return digraphutils.DOTCode(
		reachableNames,
		edges,
		graphName,
		`node[shape=box]`,
		func(name string) string {
			return fmt.Sprintf("[label=%q]", byName[name].String())
		},
	)
}
