package declared

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/parametry/declared/i18n"
	"github.com/parametry/declared/typedesc"
)

// Location tells which part of the request a parameter is read from.
type Location string

const (
	LocationPath     Location = "path"
	LocationQuery    Location = "query"
	LocationHeader   Location = "header"
	LocationFormData Location = "formData"
	LocationBody     Location = "body"
)

const locationHint = "one of path, query, header, formData, body"

func knownLocation(l Location) bool {
	switch l {
	case LocationPath, LocationQuery, LocationHeader, LocationFormData, LocationBody:
		return true
	}
	return false
}

// Definition is the raw description of one parameter before compilation.
// The decl loader and the dsl builders both produce it; applications can
// also fill it directly.
type Definition struct {
	Name string
	// In is the request location keyword. Enclosed definitions carry no
	// location and ignore it.
	In string
	// Type is the keyword resolved against the typedesc registry.
	Type string
	// Rule is the requiredness keyword. The requires/required family marks
	// the parameter required; anything else, including the empty string,
	// leaves it optional.
	Rule    string
	Default any
	// HasDefault must be true iff a default key was present in the
	// declaration, independent of Rule. Loaders set it from key presence.
	HasDefault  bool
	Pattern     string
	Description string
	// Coerce disables coercion when it points at false. Nil keeps the
	// default of coercion enabled.
	Coerce   *bool
	Enclosed []Definition
}

// Spec is one compiled, immutable parameter schema node. Specs are safe
// for unlimited concurrent readers.
type Spec struct {
	name        string
	location    Location
	required    bool
	typ         typedesc.Descriptor
	def         any
	hasDefault  bool
	pattern     *regexp.Regexp
	coerce      bool
	description string
	enclosed    []*Spec
}

// Name returns the parameter name.
func (s *Spec) Name() string { return s.name }

// Location returns the request location; empty for enclosed specs.
func (s *Spec) Location() Location { return s.location }

// Required reports whether absence is a failure.
func (s *Spec) Required() bool { return s.required }

// Type returns the type descriptor.
func (s *Spec) Type() typedesc.Descriptor { return s.typ }

// Default returns the declared default and whether one was declared.
func (s *Spec) Default() (any, bool) { return s.def, s.hasDefault }

// Pattern returns the compiled pattern, or nil.
func (s *Spec) Pattern() *regexp.Regexp { return s.pattern }

// CoerceEnabled reports whether coercion runs before assertion.
func (s *Spec) CoerceEnabled() bool { return s.coerce }

// Description returns the documentation text.
func (s *Spec) Description() string { return s.description }

// Enclosed returns the child specs in declaration order. Callers must
// treat the slice as read-only.
func (s *Spec) Enclosed() []*Spec { return s.enclosed }

// requiredRule reports whether the keyword belongs to the requires/required
// family.
func requiredRule(rule string) bool {
	switch strings.ToLower(strings.TrimSpace(rule)) {
	case "requires", "required":
		return true
	}
	return false
}

// Compile builds one immutable Spec from its definition. Construction
// failures come back as Issues with a nil spec; they are warnings from the
// wider schema's point of view, so the caller decides whether a missing
// spec is fatal.
func Compile(def Definition, opts ...CompileOpt) (*Spec, error) {
	var co CompileOpt
	if len(opts) > 0 {
		co = opts[len(opts)-1]
	}
	return compile(def, true, "", co.Sink)
}

func compile(def Definition, topLevel bool, base string, sink Sink) (*Spec, error) {
	if strings.TrimSpace(def.Name) == "" {
		path := base + "/"
		emit(sink, Event{Level: LevelWarn, Code: CodeInvalidSpec, Path: path,
			Message: "parameter definition has no name"})
		return nil, Issues{{Path: path, Code: CodeInvalidSpec,
			Message: i18n.T(CodeInvalidSpec, nil), Hint: "parameter name must not be empty"}}
	}
	path := base + "/" + def.Name

	var loc Location
	if topLevel {
		loc = Location(def.In)
		if !knownLocation(loc) {
			emit(sink, Event{Level: LevelWarn, Code: CodeInvalidLocation, Param: def.Name, Path: path,
				Message: fmt.Sprintf("parameter %q declares location %q, want %s", def.Name, def.In, locationHint),
				Fields:  map[string]any{"in": def.In}})
			return nil, Issues{{Path: path, Code: CodeInvalidLocation,
				Message: i18n.T(CodeInvalidLocation, nil), Hint: locationHint,
				Params: map[string]any{"in": def.In}}}
		}
	}

	td, ok := typedesc.Lookup(def.Type)
	if !ok {
		emit(sink, Event{Level: LevelWarn, Code: CodeUnknownType, Param: def.Name, Path: path,
			Message: fmt.Sprintf("parameter %q declares unknown type %q", def.Name, def.Type),
			Fields:  map[string]any{"type": def.Type}})
		return nil, Issues{{Path: path, Code: CodeUnknownType,
			Message: i18n.T(CodeUnknownType, nil),
			Params:  map[string]any{"type": def.Type}}}
	}

	var re *regexp.Regexp
	if def.Pattern != "" {
		var err error
		re, err = regexp.Compile(def.Pattern)
		if err != nil {
			emit(sink, Event{Level: LevelWarn, Code: CodeInvalidPattern, Param: def.Name, Path: path,
				Message: fmt.Sprintf("parameter %q declares an unparsable pattern: %v", def.Name, err),
				Fields:  map[string]any{"pattern": def.Pattern}})
			return nil, Issues{{Path: path, Code: CodeInvalidPattern,
				Message: i18n.T(CodeInvalidPattern, nil), Cause: err,
				Params: map[string]any{"pattern": def.Pattern}}}
		}
	}

	required := requiredRule(def.Rule)
	if required && def.HasDefault {
		// Legal, but the default can never apply: required absence fails
		// before default handling is reached.
		emit(sink, Event{Level: LevelInfo, Code: CodeDefaultUnreachable, Param: def.Name, Path: path,
			Message: fmt.Sprintf("parameter %q is required, its default value can never apply", def.Name)})
	}

	coerce := true
	if def.Coerce != nil {
		coerce = *def.Coerce
	}

	var enclosed []*Spec
	if len(def.Enclosed) > 0 {
		if !typedesc.IsStructured(td) {
			emit(sink, Event{Level: LevelWarn, Code: CodeEnclosedIgnored, Param: def.Name, Path: path,
				Message: fmt.Sprintf("parameter %q has type %s, enclosed definitions are ignored", def.Name, td.Name()),
				Fields:  map[string]any{"type": td.Name()}})
		} else {
			seen := make(map[string]struct{}, len(def.Enclosed))
			for _, child := range def.Enclosed {
				cs, err := compile(child, false, path, sink)
				if err != nil {
					// The child was warned about already; the parent
					// still builds without it.
					continue
				}
				if _, dup := seen[cs.name]; dup {
					emit(sink, Event{Level: LevelWarn, Code: CodeDuplicateParam, Param: cs.name,
						Path:    path + "/" + cs.name,
						Message: fmt.Sprintf("enclosed parameter %q declared twice, keeping the first", cs.name)})
					continue
				}
				seen[cs.name] = struct{}{}
				enclosed = append(enclosed, cs)
			}
		}
	}

	return &Spec{
		name:        def.Name,
		location:    loc,
		required:    required,
		typ:         td,
		def:         def.Default,
		hasDefault:  def.HasDefault,
		pattern:     re,
		coerce:      coerce,
		description: def.Description,
		enclosed:    enclosed,
	}, nil
}

// ParamSet is an ordered, immutable collection of compiled specs.
type ParamSet struct {
	specs  []*Spec
	byName map[string]*Spec
}

// CompileSet compiles the definitions in order. Definitions that fail to
// compile are skipped; their Issues come back as the error while the
// returned set still holds every survivor, so partial results stay usable.
// Duplicate names keep the first spec and warn.
func CompileSet(defs []Definition, opts ...CompileOpt) (*ParamSet, error) {
	var co CompileOpt
	if len(opts) > 0 {
		co = opts[len(opts)-1]
	}
	set := &ParamSet{byName: make(map[string]*Spec, len(defs))}
	var iss Issues
	for _, def := range defs {
		sp, err := compile(def, true, "", co.Sink)
		if err != nil {
			if more, ok := AsIssues(err); ok {
				iss = AppendIssues(iss, more...)
			}
			continue
		}
		if _, dup := set.byName[sp.name]; dup {
			emit(co.Sink, Event{Level: LevelWarn, Code: CodeDuplicateParam, Param: sp.name, Path: "/" + sp.name,
				Message: fmt.Sprintf("parameter %q declared twice, keeping the first", sp.name)})
			iss = AppendIssues(iss, Issue{Path: "/" + sp.name, Code: CodeDuplicateParam,
				Message: i18n.T(CodeDuplicateParam, nil)})
			continue
		}
		set.specs = append(set.specs, sp)
		set.byName[sp.name] = sp
	}
	if len(iss) > 0 {
		return set, iss
	}
	return set, nil
}

// Len returns the number of specs in the set.
func (ps *ParamSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.specs)
}

// Specs returns the specs in declaration order. Callers must treat the
// slice as read-only.
func (ps *ParamSet) Specs() []*Spec {
	if ps == nil {
		return nil
	}
	return ps.specs
}

// Spec looks a parameter up by name.
func (ps *ParamSet) Spec(name string) (*Spec, bool) {
	if ps == nil {
		return nil, false
	}
	sp, ok := ps.byName[name]
	return sp, ok
}
