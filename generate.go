package jsbridge

import (
	"github.com/modelbind/jsbridge/emitter"
	"github.com/modelbind/jsbridge/emitter/jsio"
	"github.com/modelbind/jsbridge/ir"
	"github.com/modelbind/jsbridge/naming"
	"github.com/modelbind/jsbridge/resolver"
)

// Options configures a generation run.
type Options struct {
	// Convention is the identifier convention of the target runtime.
	// Nil means [naming.Runtime].
	Convention *naming.Convention
	// StateType and EventType name the two distinguished top-level
	// types of the wrapper surface (defaults "State" and "Event").
	StateType string
	EventType string
}

// Result holds the output of one generation run. Both profiles are
// produced from the same resolved set; either may be written out,
// depending on the configured outputs.
type Result struct {
	// Bare is the plain JavaScript rendition.
	Bare string
	// Typed is the annotated rendition: type declarations followed by
	// the same converter and wrapper surface with inline annotations.
	Typed string
	// Set is the resolved generation set the output was emitted from.
	Set *resolver.GenerationSet
	// Notes carries informational diagnostics from resolution.
	Notes []string
}

// Generate resolves the model's reference closure and emits both
// output profiles. On a resolution error no partial output is
// produced.
func Generate(model *ir.Model, opts Options) (*Result, error) {
	set, err := resolver.Resolve(model.RootDefinitions(), model.Functions, model.LookupAll)
	if err != nil {
		return nil, err
	}

	res := &Result{Set: set, Notes: set.Notes}
	for _, typed := range []bool{false, true} {
		e := emitter.New(opts.Convention, model.Lookup(), emitter.Options{
			Typed:           typed,
			StateType:       opts.StateType,
			EventType:       opts.EventType,
			FunctionsModule: model.FunctionsModule,
		})

		var cb jsio.CodeBuilder
		cb.Append(emitter.Prelude)
		cb.Linef("")
		if typed {
			e.EmitTypeDecls(&cb, set)
			cb.Linef("")
		}
		e.EmitConverters(&cb, set)
		cb.Linef("")
		e.EmitWrapper(&cb, set, model.Functions)

		if typed {
			res.Typed = cb.String()
		} else {
			res.Bare = cb.String()
		}
	}
	return res, nil
}
