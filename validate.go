package declared

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/parametry/declared/i18n"
	"github.com/parametry/declared/typedesc"
)

// Validate checks one raw slot against a compiled spec and returns the
// normalized value. Absence of an optional parameter is a success carrying
// no value: (nil, nil). Validate never mutates the spec and may be called
// concurrently; the only mutation it performs is writing normalized child
// values back into a supplied object map.
func Validate(ctx context.Context, spec *Spec, slot Slot, opts ...ValidateOpt) (any, error) {
	var vo ValidateOpt
	if len(opts) > 0 {
		vo = opts[len(opts)-1]
	}
	return validate(ctx, spec, slot, "/"+spec.name, vo)
}

func validate(ctx context.Context, spec *Spec, slot Slot, path string, vo ValidateOpt) (any, error) {
	if !slot.Present() {
		if spec.required {
			if !vo.Quiet {
				emit(vo.Sink, Event{Level: LevelWarn, Code: CodeParamMissing, Param: spec.name, Path: path,
					Message: fmt.Sprintf("required parameter %q has no value", spec.name)})
			}
			return nil, Issues{{Path: path, Code: CodeParamMissing,
				Message: i18n.T(CodeParamMissing, nil)}}
		}
		if !vo.Quiet {
			emit(vo.Sink, Event{Level: LevelInfo, Code: CodeParamMissing, Param: spec.name, Path: path,
				Message: fmt.Sprintf("optional parameter %q absent, nothing to validate", spec.name)})
		}
		return nil, nil
	}

	v := slot.Value()

	// A failed coercion keeps the original value; the assertion below is
	// the single authority on acceptance.
	if spec.coerce && spec.typ.HasCoercion() {
		if cv, err := spec.typ.Coerce(v); err == nil {
			v = cv
		}
	}

	av, err := spec.typ.Assert(v)
	if err != nil {
		if !vo.Quiet {
			emit(vo.Sink, Event{Level: LevelWarn, Code: CodeTypeMismatch, Param: spec.name, Path: path,
				Message: fmt.Sprintf("parameter %q does not validate as %s: %v", spec.name, spec.typ.Name(), slot.Value()),
				Fields:  map[string]any{"type": spec.typ.Name(), "value": slot.Value()}})
		}
		return nil, Issues{{Path: path, Code: CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, nil), Cause: err,
			Params: map[string]any{"type": spec.typ.Name()}}}
	}
	v = av

	if len(spec.enclosed) > 0 && typedesc.IsStructured(spec.typ) {
		m, ok := v.(map[string]any)
		if !ok {
			if !vo.Quiet {
				emit(vo.Sink, Event{Level: LevelWarn, Code: CodeTypeMismatch, Param: spec.name, Path: path,
					Message: fmt.Sprintf("parameter %q must be an object to hold enclosed fields", spec.name),
					Fields:  map[string]any{"type": spec.typ.Name()}})
			}
			return nil, Issues{{Path: path, Code: CodeTypeMismatch,
				Message: i18n.T(CodeTypeMismatch, nil),
				Params:  map[string]any{"type": spec.typ.Name()}}}
		}
		for _, child := range spec.enclosed {
			cv, err := validate(ctx, child, SlotOf(m, child.name), path+"/"+child.name, vo)
			if err != nil {
				// Fail fast: the first nested failure aborts the parent
				// and keeps its leaf code; the path records the nesting.
				return nil, err
			}
			if _, present := m[child.name]; present {
				m[child.name] = cv
			}
		}
		return m, nil
	}

	if spec.pattern != nil {
		s := stringForm(v)
		if !spec.pattern.MatchString(s) {
			if !vo.Quiet {
				emit(vo.Sink, Event{Level: LevelWarn, Code: CodePatternMismatch, Param: spec.name, Path: path,
					Message: fmt.Sprintf("parameter %q value %q does not match %s", spec.name, s, spec.pattern),
					Fields:  map[string]any{"pattern": spec.pattern.String(), "value": s}})
			}
			return nil, Issues{{Path: path, Code: CodePatternMismatch,
				Message: i18n.T(CodePatternMismatch, nil),
				Params:  map[string]any{"pattern": spec.pattern.String()}}}
		}
	}

	return v, nil
}

// stringForm renders a validated scalar for pattern matching. Canonical
// scalars format via strconv; anything else falls back to fmt.
func stringForm(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
