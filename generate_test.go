package jsbridge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/loader"
	"github.com/modelbind/jsbridge/resolver"
)

func loadTestModel(t *testing.T, name string) *ir.Model {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	for _, f := range ar.Files {
		if f.Name == "model.toml" {
			m, err := loader.Parse(f.Data)
			require.NoError(t, err)
			return m
		}
	}
	t.Fatalf("no model.toml in %v", name)
	return nil
}

func TestGenerateGame(t *testing.T) {
	model := loadTestModel(t, "game.txtar")

	res, err := Generate(model, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Notes)

	// All four datatypes are reachable and get converter pairs.
	names := make([]string, len(res.Set.Defs))
	for i, d := range res.Set.Defs {
		names[i] = d.Name
	}
	require.Equal(t, []string{"Color", "Player", "State", "Event"}, names)

	for _, code := range []string{res.Bare, res.Typed} {
		// Prelude precedes the converters.
		require.Contains(t, code, "function _toStr(")

		require.Contains(t, code, "return Model.Color.create_Red();")
		require.Contains(t, code, "function playerFromJson")
		require.Contains(t, code, "function stateToJson")
		require.Contains(t, code, `case "Join": {`)

		// Wrapper surface: event constructors, state accessors, call
		// wrappers and exports.
		require.Contains(t, code, "const api = {};")
		require.Contains(t, code, "return Model.Event.create_Join(_rt.Seq.UnicodeFromString(name));")
		require.Contains(t, code, "return (state.dtor_round).toNumber();")
		require.Contains(t, code, "const _r = App.init();")
		require.Contains(t, code, "const _r = App.step(state, event);")
		require.Contains(t, code, "api.stateToJson = stateToJson;")
	}

	// Type declarations only appear on the typed profile.
	require.NotContains(t, res.Bare, "export type")
	require.Contains(t, res.Typed, `export type ColorJson = "Red" | "Blue";`)
	require.Contains(t, res.Typed, "export type StateValue =")
	require.Contains(t, res.Typed, "function stateFromJson(j: StateJson): StateValue {")
}

func TestGenerateCollision(t *testing.T) {
	model := loadTestModel(t, "collision.txtar")

	res, err := Generate(model, Options{})
	var cErr *resolver.CollisionError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, "Pos", cErr.Name)
	require.Nil(t, res, "no partial output on a resolution error")
}
