package converter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/naming"
)

func TestDirection(t *testing.T) {
	require.Equal(t, "ToJson", ToJson.String())
	require.Equal(t, "FromJson", FromJson.String())
	require.Equal(t, "toJson", ToJson.StringCamelCase())
	require.Equal(t, "fromJson", FromJson.StringCamelCase())
	require.Equal(t, FromJson, ToJson.Opposite())
	require.Equal(t, ToJson, FromJson.Opposite())
	require.Panics(t, func() {
		_ = Direction(17).String()
	})
}

func TestFuncName(t *testing.T) {
	require.Equal(t, "statusFromJson", FuncName("Status", FromJson))
	require.Equal(t, "statusToJson", FuncName("Status", ToJson))
	require.Equal(t, "my_typeToJson", FuncName("My-Type", ToJson))
	require.Equal(t, "tFromJson", ParamConvName("T", FromJson))
}

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(naming.Runtime())
}

func TestSynthesizeScalars(t *testing.T) {
	s := newTestSynthesizer()
	tests := []struct {
		name string
		dir  Direction
		typ  ir.Type
		want string
	}{
		{"int to", ToJson, ir.Int{}, "(x).toNumber()"},
		{"int from", FromJson, ir.Int{}, "new _rt.BigNumber(x)"},
		{"bool to", ToJson, ir.Bool{}, "x"},
		{"bool from", FromJson, ir.Bool{}, "x"},
		{"string to", ToJson, ir.String{}, "_toStr(x)"},
		{"string from", FromJson, ir.String{}, "_rt.Seq.UnicodeFromString(x)"},
		{"opaque to", ToJson, ir.Opaque{Name: "Handle"}, "x"},
		{"opaque from", FromJson, ir.Opaque{Name: "Handle"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.Synthesize(tt.dir, tt.typ, "x", nil))
		})
	}
}

func TestSynthesizeSeqAndSet(t *testing.T) {
	s := newTestSynthesizer()

	// Element conversion required.
	require.Equal(t,
		"(x).toArray().map((_e0) => (_e0).toNumber())",
		s.Synthesize(ToJson, ir.SeqOf(ir.Int{}), "x", nil))
	require.Equal(t,
		"_rt.Seq.of(...((x) ?? []).map((_e0) => new _rt.BigNumber(_e0)))",
		s.Synthesize(FromJson, ir.SeqOf(ir.Int{}), "x", nil))

	// Identity elements skip the map entirely.
	require.Equal(t,
		"(x).toArray()",
		s.Synthesize(ToJson, ir.SeqOf(ir.Bool{}), "x", nil))
	require.Equal(t,
		"_rt.Seq.of(...((x) ?? []))",
		s.Synthesize(FromJson, ir.SeqOf(ir.Bool{}), "x", nil))

	require.Equal(t,
		"Array.from((x).Elements).map((_e0) => _toStr(_e0))",
		s.Synthesize(ToJson, ir.SetOf(ir.String{}), "x", nil))
	require.Equal(t,
		"_rt.Set.fromElements(...((x) ?? []).map((_e0) => _rt.Seq.UnicodeFromString(_e0)))",
		s.Synthesize(FromJson, ir.SetOf(ir.String{}), "x", nil))
}

func TestSynthesizeNestedSeqHelpers(t *testing.T) {
	s := newTestSynthesizer()
	// Nested sequence conversions must number their element variables
	// so the inner lambda never shadows the outer one.
	got := s.Synthesize(ToJson, ir.SeqOf(ir.SeqOf(ir.Int{})), "x", nil)
	require.Equal(t,
		"(x).toArray().map((_e0) => (_e0).toArray().map((_e1) => (_e1).toNumber()))",
		got)
}

func TestSynthesizeTuple(t *testing.T) {
	s := newTestSynthesizer()
	require.Equal(t,
		"[((x)[0]).toNumber(), _toStr((x)[1])]",
		s.Synthesize(ToJson, ir.TupleOf(ir.Int{}, ir.String{}), "x", nil))
	require.Equal(t,
		"_rt.Tuple2(new _rt.BigNumber((x)[0]), _rt.Seq.UnicodeFromString((x)[1]))",
		s.Synthesize(FromJson, ir.TupleOf(ir.Int{}, ir.String{}), "x", nil))
	// The empty tuple is the identity.
	require.Equal(t, "x", s.Synthesize(ToJson, ir.Tuple{}, "x", nil))
	require.Equal(t, "x", s.Synthesize(FromJson, ir.Tuple{}, "x", nil))
}

func TestSynthesizeNamed(t *testing.T) {
	s := newTestSynthesizer()
	require.Equal(t,
		"shapeFromJson(x)",
		s.Synthesize(FromJson, ir.Ref("Shape"), "x", nil))
	require.Equal(t,
		"optionToJson(x, (_x0) => (_x0).toNumber())",
		s.Synthesize(ToJson, ir.Ref("Option", ir.Int{}), "x", nil))
	require.Equal(t,
		"pairFromJson(x, (_x0) => new _rt.BigNumber(_x0), (_x0) => _x0)",
		s.Synthesize(FromJson, ir.Ref("Pair", ir.Int{}, ir.Bool{}), "x", nil))
}

func TestSynthesizeParam(t *testing.T) {
	s := newTestSynthesizer()
	convs := map[string]string{"T": "tFromJson"}
	require.Equal(t, "tFromJson(x)", s.Synthesize(FromJson, ir.TypeParam("T"), "x", convs))
	// A parameter without a supplied converter is the identity.
	require.Equal(t, "x", s.Synthesize(FromJson, ir.TypeParam("U"), "x", convs))
}

func TestIsIdentity(t *testing.T) {
	s := newTestSynthesizer()
	require.True(t, s.IsIdentity(ToJson, ir.Bool{}, nil))
	require.True(t, s.IsIdentity(FromJson, ir.Opaque{}, nil))
	require.True(t, s.IsIdentity(ToJson, ir.Tuple{}, nil))
	require.False(t, s.IsIdentity(ToJson, ir.Int{}, nil))
	require.False(t, s.IsIdentity(FromJson, ir.SeqOf(ir.Bool{}), nil))
}

func TestMapBlock(t *testing.T) {
	s := newTestSynthesizer()
	m := ir.MapOf(ir.String{}, ir.Int{})

	require.Equal(t, []string{
		"let _out = _rt.Map.Empty;",
		"for (const _k0 of Object.keys((x) ?? {})) {",
		"\t_out = _out.update(_rt.Seq.UnicodeFromString(_k0), new _rt.BigNumber((x)[_k0]));",
		"}",
	}, s.MapBlock(FromJson, m, "x", "_out", nil))

	require.Equal(t, []string{
		"const _out = {};",
		"for (const _k0 of (x).Keys.Elements) {",
		"\t_out[_toStr(_k0)] = ((x).get(_k0)).toNumber();",
		"}",
	}, s.MapBlock(ToJson, m, "x", "_out", nil))
}

func TestSynthesizeMapExpression(t *testing.T) {
	s := newTestSynthesizer()
	got := s.Synthesize(FromJson, ir.MapOf(ir.String{}, ir.Bool{}), "x", nil)
	// Expression position wraps the statement form in an IIFE.
	require.Contains(t, got, "((_m0) => {")
	require.Contains(t, got, "let _r = _rt.Map.Empty;")
	require.Contains(t, got, "return _r; })(x)")
}
