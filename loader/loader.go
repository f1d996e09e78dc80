// Package loader reads model files into the ir model the generator
// consumes. A model file is TOML describing the datatype definitions
// of one or more modules and the function surface to wrap.
//
//	[model]
//	module = "Model"
//	functions = "App"
//
//	[[datatype]]
//	name = "Shape"
//	[[datatype.variant]]
//	name = "Circle"
//	fields = [{ name = "radius", type = "int" }]
//
//	[[function]]
//	name = "area"
//	params = [{ name = "s", type = "Shape" }]
//	returns = "int"
//
// Ghost fields (ghost = true) are observable only to the typed
// program, never to the marshalled boundary; the loader filters them
// out so the core receives pre-filtered definitions.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/parser"
)

type fileField struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Ghost bool   `toml:"ghost"`
}

type fileVariant struct {
	Name   string      `toml:"name"`
	Fields []fileField `toml:"fields"`
}

type fileDatatype struct {
	Name     string        `toml:"name"`
	Module   string        `toml:"module"` // defaults to [model].module
	Params   []string      `toml:"params"`
	Variants []fileVariant `toml:"variant"`
}

type fileParam struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type fileFunction struct {
	Name    string      `toml:"name"`
	Module  string      `toml:"module"` // defaults to [model].functions
	Params  []fileParam `toml:"params"`
	Returns string      `toml:"returns"`
}

type file struct {
	Model struct {
		Module    string `toml:"module"`
		Functions string `toml:"functions"`
	} `toml:"model"`
	Datatypes []fileDatatype `toml:"datatype"`
	Functions []fileFunction `toml:"function"`
}

// Load reads and parses the model file at path.
func Load(path string) (*ir.Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return m, nil
}

// Parse parses model TOML source.
func Parse(src []byte) (*ir.Model, error) {
	var f file
	err := toml.NewDecoder(bytes.NewReader(src)).
		DisallowUnknownFields().
		Decode(&f)
	if err != nil {
		return nil, err
	}
	if f.Model.Module == "" {
		return nil, fmt.Errorf("model: missing module name")
	}

	m := &ir.Model{
		Module:          f.Model.Module,
		FunctionsModule: f.Model.Functions,
	}

	for _, fd := range f.Datatypes {
		def, err := buildDatatype(f.Model.Module, fd)
		if err != nil {
			return nil, err
		}
		m.Datatypes = append(m.Datatypes, def)
	}

	for _, ff := range f.Functions {
		sig, err := buildFunction(f.Model.Functions, ff)
		if err != nil {
			return nil, err
		}
		m.Functions = append(m.Functions, sig)
	}

	return m, nil
}

func buildDatatype(defaultModule string, fd fileDatatype) (*ir.DatatypeDefinition, error) {
	if fd.Name == "" {
		return nil, fmt.Errorf("datatype: missing name")
	}
	module := fd.Module
	if module == "" {
		module = defaultModule
	}
	def := &ir.DatatypeDefinition{
		Module: module,
		Name:   fd.Name,
		Params: slices.Clone(fd.Params),
	}
	if len(fd.Variants) == 0 {
		return nil, fmt.Errorf("datatype %v: no variants", fd.Name)
	}
	for _, fv := range fd.Variants {
		if fv.Name == "" {
			return nil, fmt.Errorf("datatype %v: variant with missing name", fd.Name)
		}
		v := ir.Variant{Name: fv.Name}
		for _, ff := range fv.Fields {
			if ff.Ghost {
				continue
			}
			t, err := parseFieldType(ff.Type, fd.Params)
			if err != nil {
				return nil, fmt.Errorf("datatype %v: variant %v: field %v: %w",
					fd.Name, fv.Name, ff.Name, err)
			}
			v.Fields = append(v.Fields, ir.Field{Name: ff.Name, Type: t})
		}
		def.Variants = append(def.Variants, v)
	}
	return def, nil
}

func buildFunction(defaultModule string, ff fileFunction) (ir.FunctionSignature, error) {
	if ff.Name == "" {
		return ir.FunctionSignature{}, fmt.Errorf("function: missing name")
	}
	module := ff.Module
	if module == "" {
		module = defaultModule
	}
	sig := ir.FunctionSignature{Module: module, Name: ff.Name}
	for _, fp := range ff.Params {
		t, err := parseFieldType(fp.Type, nil)
		if err != nil {
			return ir.FunctionSignature{}, fmt.Errorf("function %v: param %v: %w", ff.Name, fp.Name, err)
		}
		sig.Params = append(sig.Params, ir.ParamDecl{Name: fp.Name, Type: t})
	}
	if ff.Returns == "" {
		// No declared result: model it as the empty tuple, which
		// converts as the identity.
		sig.Result = ir.Tuple{}
		return sig, nil
	}
	t, err := parseFieldType(ff.Returns, nil)
	if err != nil {
		return ir.FunctionSignature{}, fmt.Errorf("function %v: returns: %w", ff.Name, err)
	}
	sig.Result = t
	return sig, nil
}

// parseFieldType parses a type expression and rewrites bare datatype
// references matching a declared generic parameter into parameter
// descriptors.
func parseFieldType(src string, params []string) (ir.Type, error) {
	if src == "" {
		return nil, fmt.Errorf("missing type")
	}
	t, err := parser.ParseType(src)
	if err != nil {
		return nil, err
	}
	return resolveParams(t, params), nil
}

func resolveParams(t ir.Type, params []string) ir.Type {
	if len(params) == 0 {
		return t
	}
	switch t := t.(type) {
	case ir.Seq:
		return ir.Seq{Elem: resolveParams(t.Elem, params)}
	case ir.Set:
		return ir.Set{Elem: resolveParams(t.Elem, params)}
	case ir.Map:
		return ir.Map{Key: resolveParams(t.Key, params), Val: resolveParams(t.Val, params)}
	case ir.Tuple:
		elems := make([]ir.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = resolveParams(e, params)
		}
		return ir.Tuple{Elems: elems}
	case ir.Named:
		if len(t.Args) == 0 {
			if slices.Contains(params, t.Name) {
				return ir.Param{Name: t.Name}
			}
			return t
		}
		args := make([]ir.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = resolveParams(a, params)
		}
		return ir.Named{Name: t.Name, Args: args}
	default:
		return t
	}
}
