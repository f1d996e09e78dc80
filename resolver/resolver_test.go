package resolver

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelbind/jsbridge/ir"
)

func lookupFrom(defs ...*ir.DatatypeDefinition) LookupAllFunc {
	return func(name string) []*ir.DatatypeDefinition {
		var out []*ir.DatatypeDefinition
		for _, d := range defs {
			if d.Name == name {
				out = append(out, d)
			}
		}
		return out
	}
}

func simpleDef(module, name string, fields ...ir.Field) *ir.DatatypeDefinition {
	return &ir.DatatypeDefinition{
		Module: module,
		Name:   name,
		Variants: []ir.Variant{
			{Name: name, Fields: fields},
		},
	}
}

func TestResolveClosure(t *testing.T) {
	leaf := simpleDef("Model", "Leaf", ir.Field{Name: "n", Type: ir.Int{}})
	node := simpleDef("Model", "Node", ir.Field{Name: "children", Type: ir.SeqOf(ir.Ref("Leaf"))})
	unused := simpleDef("Model", "Unused", ir.Field{Name: "n", Type: ir.Int{}})

	sigs := []ir.FunctionSignature{
		{Name: "root", Result: ir.Ref("Node")},
	}

	set, err := Resolve(nil, sigs, lookupFrom(leaf, node, unused))
	require.NoError(t, err)
	require.Equal(t, []*ir.DatatypeDefinition{node, leaf}, set.Defs)
	require.Empty(t, set.Notes)
}

func TestResolveCyclicTerminates(t *testing.T) {
	// Tree references itself through a sequence field.
	tree := simpleDef("Model", "Tree", ir.Field{Name: "children", Type: ir.SeqOf(ir.Ref("Tree"))})

	sigs := []ir.FunctionSignature{
		{Name: "make", Result: ir.Ref("Tree")},
	}

	set, err := Resolve(nil, sigs, lookupFrom(tree))
	require.NoError(t, err)
	require.Equal(t, []*ir.DatatypeDefinition{tree}, set.Defs)
}

func TestResolveRootDefinitionsFirst(t *testing.T) {
	a := simpleDef("Model", "A", ir.Field{Name: "n", Type: ir.Int{}})
	b := simpleDef("Model", "B", ir.Field{Name: "n", Type: ir.Int{}})
	aux := simpleDef("Aux", "C", ir.Field{Name: "n", Type: ir.Int{}})

	sigs := []ir.FunctionSignature{
		{Name: "f", Params: []ir.ParamDecl{{Name: "c", Type: ir.Ref("C")}}, Result: ir.Tuple{}},
	}

	set, err := Resolve([]*ir.DatatypeDefinition{a, b}, sigs, lookupFrom(a, b, aux))
	require.NoError(t, err)
	// Root definitions in declaration order, then discovered ones.
	require.Equal(t, []*ir.DatatypeDefinition{a, b, aux}, set.Defs)
}

func TestResolveExternalNamesSkippedSilently(t *testing.T) {
	a := simpleDef("Model", "A", ir.Field{Name: "h", Type: ir.Ref("ExternalHandle")})

	sigs := []ir.FunctionSignature{
		{Name: "f", Result: ir.Ref("A")},
	}

	set, err := Resolve(nil, sigs, lookupFrom(a))
	require.NoError(t, err)
	require.Equal(t, []*ir.DatatypeDefinition{a}, set.Defs)
	require.Empty(t, set.Notes)
}

func TestResolveMergesIdenticalDuplicates(t *testing.T) {
	a1 := simpleDef("ModA", "Pos", ir.Field{Name: "x", Type: ir.Int{}})
	a2 := simpleDef("ModB", "Pos", ir.Field{Name: "x", Type: ir.Int{}})

	sigs := []ir.FunctionSignature{
		{Name: "f", Params: []ir.ParamDecl{{Name: "p", Type: ir.Ref("Pos")}}, Result: ir.Tuple{}},
	}

	set, err := Resolve(nil, sigs, lookupFrom(a1, a2))
	require.NoError(t, err)
	require.Equal(t, []*ir.DatatypeDefinition{a1}, set.Defs, "first candidate wins")
	require.Len(t, set.Notes, 1)
	require.Contains(t, set.Notes[0], "merged duplicate type ModB.Pos")
}

func TestResolveCollision(t *testing.T) {
	a1 := simpleDef("ModA", "Pos", ir.Field{Name: "x", Type: ir.Int{}})
	a2 := simpleDef("ModB", "Pos", ir.Field{Name: "x", Type: ir.String{}})

	sigs := []ir.FunctionSignature{
		{Name: "f", Params: []ir.ParamDecl{{Name: "p", Type: ir.Ref("Pos")}}, Result: ir.Tuple{}},
	}

	_, err := Resolve(nil, sigs, lookupFrom(a1, a2))
	var cErr *CollisionError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, "Pos", cErr.Name)
	require.Equal(t, "ModA", cErr.ModuleA)
	require.Equal(t, "ModB", cErr.ModuleB)
}

func TestStructurallyIdenticalIsShallow(t *testing.T) {
	// Same field kind and same shallow name: identical, even though
	// the type arguments differ. The comparison deliberately does not
	// recurse.
	a := simpleDef("ModA", "Box", ir.Field{Name: "v", Type: ir.Ref("Option", ir.Int{})})
	b := simpleDef("ModB", "Box", ir.Field{Name: "v", Type: ir.Ref("Option", ir.String{})})
	require.True(t, structurallyIdentical(a, b))

	c := simpleDef("ModC", "Box", ir.Field{Name: "v", Type: ir.Ref("Other")})
	require.False(t, structurallyIdentical(a, c))

	d := simpleDef("ModD", "Box", ir.Field{Name: "w", Type: ir.Ref("Option")})
	require.False(t, structurallyIdentical(a, d))
}

func TestDebugDOTCode(t *testing.T) {
	leaf := simpleDef("Model", "Leaf", ir.Field{Name: "n", Type: ir.Int{}})
	node := simpleDef("Model", "Node", ir.Field{Name: "children", Type: ir.SeqOf(ir.Ref("Leaf"))})
	set := &GenerationSet{Defs: []*ir.DatatypeDefinition{node, leaf}}

	dot := string(set.DebugDOTCode(regexp.MustCompile(`.*`)))
	require.Contains(t, dot, "digraph type_graph")
	require.Contains(t, dot, `[label="Model.Node"]`)
	require.Contains(t, dot, `[label="Model.Leaf"]`)
	require.Contains(t, dot, "->")

	// Restricting to Leaf drops Node and the edge with it.
	dot = string(set.DebugDOTCode(regexp.MustCompile(`Leaf`)))
	require.Contains(t, dot, `[label="Model.Leaf"]`)
	require.NotContains(t, dot, "Model.Node")
	require.NotContains(t, dot, "->")
}
