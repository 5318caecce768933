// Package openapi renders compiled parameter sets as OpenAPI/Swagger 2.0
// parameter objects.
package openapi

import (
	declared "github.com/parametry/declared"
	"github.com/parametry/declared/typedesc"
)

// Parameter is a Swagger 2.0 parameter object. Keep this struct small and
// extend incrementally.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Type        string  `json:"type,omitempty"`
	Format      string  `json:"format,omitempty"`
	Pattern     string  `json:"pattern,omitempty"`
	Default     any     `json:"default,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Schema describes body parameter payloads.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	Default     any                `json:"default,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Parameters renders every spec in the set, in declaration order.
func Parameters(set *declared.ParamSet) []Parameter {
	if set == nil {
		return nil
	}
	out := make([]Parameter, 0, set.Len())
	for _, sp := range set.Specs() {
		out = append(out, parameter(sp))
	}
	return out
}

func parameter(sp *declared.Spec) Parameter {
	p := Parameter{
		Name:        sp.Name(),
		In:          string(sp.Location()),
		Description: sp.Description(),
		Required:    sp.Required(),
	}
	if sp.Location() == declared.LocationBody {
		// Body parameters always describe their payload via a schema.
		p.Schema = schemaOf(sp)
		return p
	}
	p.Type, p.Format = typeFormat(sp.Type())
	if re := sp.Pattern(); re != nil {
		p.Pattern = re.String()
	}
	if d, ok := sp.Default(); ok {
		p.Default = d
	}
	return p
}

func schemaOf(sp *declared.Spec) *Schema {
	s := &Schema{Description: sp.Description()}
	s.Type, s.Format = typeFormat(sp.Type())
	if re := sp.Pattern(); re != nil {
		s.Pattern = re.String()
	}
	if d, ok := sp.Default(); ok {
		s.Default = d
	}
	for _, c := range sp.Enclosed() {
		if s.Properties == nil {
			s.Properties = make(map[string]*Schema)
		}
		s.Properties[c.Name()] = schemaOf(c)
		if c.Required() {
			s.Required = append(s.Required, c.Name())
		}
	}
	return s
}

// typeFormat maps descriptor keywords onto Swagger type/format pairs.
func typeFormat(d typedesc.Descriptor) (string, string) {
	switch d.Name() {
	case "integer":
		return "integer", "int64"
	case "number":
		return "number", "double"
	case "boolean":
		return "boolean", ""
	case "object":
		return "object", ""
	case "array":
		return "array", ""
	case "uuid":
		return "string", "uuid"
	case "timestamp":
		return "string", "date-time"
	case "any":
		return "", ""
	}
	return "string", ""
}
