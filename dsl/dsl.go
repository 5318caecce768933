// Package dsl builds parameter definitions with a fluent chain:
//
//	set, err := dsl.Set(
//		dsl.Requires("id", "integer").In(declared.LocationPath).Pattern(`^\d+$`),
//		dsl.Optional("page", "integer").In(declared.LocationQuery).Default(1),
//		dsl.Optional("profile", "object").In(declared.LocationBody).Enclose(
//			dsl.Requires("email", "string"),
//			dsl.Optional("age", "integer"),
//		),
//	)
package dsl

import (
	declared "github.com/parametry/declared"
)

// P accumulates one parameter definition.
type P struct {
	def declared.Definition
}

// Requires starts a required parameter of the given type keyword.
func Requires(name, typ string) *P {
	return &P{def: declared.Definition{Name: name, Type: typ, Rule: "requires"}}
}

// Optional starts an optional parameter of the given type keyword.
func Optional(name, typ string) *P {
	return &P{def: declared.Definition{Name: name, Type: typ}}
}

// In sets the request location. Enclosed parameters do not need one.
func (p *P) In(location declared.Location) *P {
	p.def.In = string(location)
	return p
}

// Default attaches a default value, applied only when the slot stays
// absent at resolution.
func (p *P) Default(v any) *P {
	p.def.Default = v
	p.def.HasDefault = true
	return p
}

// Pattern constrains the scalar's string form with a regular expression.
func (p *P) Pattern(expr string) *P {
	p.def.Pattern = expr
	return p
}

// Describe attaches documentation text.
func (p *P) Describe(text string) *P {
	p.def.Description = text
	return p
}

// NoCoerce disables coercion for this parameter.
func (p *P) NoCoerce() *P {
	f := false
	p.def.Coerce = &f
	return p
}

// Enclose nests child parameters under an object-typed parameter.
func (p *P) Enclose(children ...*P) *P {
	for _, c := range children {
		p.def.Enclosed = append(p.def.Enclosed, c.def)
	}
	return p
}

// Definition returns the accumulated definition.
func (p *P) Definition() declared.Definition { return p.def }

// Definitions converts a builder list into plain definitions.
func Definitions(ps ...*P) []declared.Definition {
	defs := make([]declared.Definition, 0, len(ps))
	for _, b := range ps {
		defs = append(defs, b.def)
	}
	return defs
}

// Set compiles the builders into a ParamSet. See declared.CompileSet for
// the partial-result contract.
func Set(ps ...*P) (*declared.ParamSet, error) {
	return declared.CompileSet(Definitions(ps...))
}
