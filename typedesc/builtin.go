package typedesc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Builtin descriptors, registered under their keywords in init. The scalar
// constraints keep coercion (string reshaping) strictly apart from
// assertion, so disabling coercion on a spec has observable effect.
var (
	String = &Constraint{TypeName: "string", CoerceFunc: coerceString, AssertFunc: assertString}

	Integer = &Constraint{TypeName: "integer", CoerceFunc: coerceInteger, AssertFunc: assertInteger}

	Number = &Constraint{TypeName: "number", CoerceFunc: coerceNumber, AssertFunc: assertNumber}

	Boolean = &Constraint{TypeName: "boolean", CoerceFunc: coerceBoolean, AssertFunc: assertBoolean}

	Object = &Constraint{TypeName: "object", AssertFunc: assertObject, Object: true}

	Array = &Constraint{TypeName: "array", CoerceFunc: coerceArray, AssertFunc: assertArray}

	// Any accepts every present value untouched.
	Any = &Constraint{TypeName: "any"}

	// UUID is a callable descriptor: parsing and checking happen in one
	// step, so the coercion toggle does not apply to it.
	UUID = Func{TypeName: "uuid", Fn: convertUUID}

	// Timestamp accepts RFC 3339 strings with or without fractional
	// seconds, and time.Time values as-is.
	Timestamp = Func{TypeName: "timestamp", Fn: convertTimestamp}
)

func init() {
	Register("string", String)
	Register("integer", Integer)
	Register("number", Number)
	Register("boolean", Boolean)
	Register("object", Object)
	Register("array", Array)
	Register("any", Any)
	Register("uuid", UUID)
	Register("timestamp", Timestamp)

	// Aliases seen in declaration files in the wild.
	Register("str", String)
	Register("int", Integer)
	Register("float", Number)
	Register("bool", Boolean)
}

func coerceString(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return t.String(), nil
	}
	return v, nil
}

func assertString(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not a string", v)
}

func coerceInteger(v any) (any, error) {
	switch t := v.(type) {
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not an integer", t)
		}
		return n, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not an integer", t.String())
		}
		return n, nil
	}
	return v, nil
}

func assertInteger(v any) (any, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return nil, fmt.Errorf("typedesc: %d overflows int64", t)
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, fmt.Errorf("typedesc: %d overflows int64", t)
		}
		return int64(t), nil
	case float32:
		return intFromFloat(float64(t))
	case float64:
		return intFromFloat(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not an integer", t.String())
		}
		return n, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not an integer", v)
}

// intFromFloat accepts only integral floats inside the int64 range. JSON
// decoders hand numbers over as float64, so this is the common body path.
func intFromFloat(f float64) (any, error) {
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("typedesc: %v is not an integer", f)
	}
	if f < -(1 << 63) || f >= (1 << 63) {
		return nil, fmt.Errorf("typedesc: %v overflows int64", f)
	}
	return int64(f), nil
}

func coerceNumber(v any) (any, error) {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not a number", t)
		}
		return f, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not a number", t.String())
		}
		return f, nil
	}
	return v, nil
}

func assertNumber(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not a number", t.String())
		}
		return f, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not a number", v)
}

func coerceBoolean(v any) (any, error) {
	if s, ok := v.(string); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not a boolean", s)
		}
		return b, nil
	}
	return v, nil
}

func assertBoolean(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not a boolean", v)
}

func assertObject(v any) (any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not an object", v)
}

func coerceArray(v any) (any, error) {
	switch t := v.(type) {
	case string:
		// A lone scalar from a query or path source becomes a
		// single-element array.
		return []any{t}, nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	}
	return v, nil
}

func assertArray(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not an array", v)
}

func convertUUID(v any) (any, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not a uuid: %w", t, err)
		}
		return id, nil
	case [16]byte:
		return uuid.UUID(t), nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not a uuid", v)
}

func convertTimestamp(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		ts, err := parseRFC3339(t)
		if err != nil {
			return nil, fmt.Errorf("typedesc: %q is not an RFC 3339 timestamp", t)
		}
		return ts, nil
	}
	return nil, fmt.Errorf("typedesc: value of type %T is not a timestamp", v)
}

// parseRFC3339 prefers the fractional-second form and falls back to the
// plain one.
func parseRFC3339(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}
