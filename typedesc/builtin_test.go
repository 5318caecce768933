package typedesc_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/parametry/declared/typedesc"
)

func TestInteger_CoercionAndAssertionAreSeparate(t *testing.T) {
	v, err := typedesc.Integer.Coerce("42")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("expected int64(42), got %T(%v)", v, v)
	}

	// The assertion alone never parses strings; that is coercion's job.
	if _, err := typedesc.Integer.Assert("42"); err == nil {
		t.Fatalf("assert must reject a string form")
	}
}

func TestInteger_AssertNormalizesNumericKinds(t *testing.T) {
	cases := []any{int(7), int8(7), int16(7), int32(7), int64(7), uint(7), uint8(7), uint16(7), uint32(7), uint64(7), float32(7), float64(7)}
	for _, in := range cases {
		v, err := typedesc.Integer.Assert(in)
		if err != nil {
			t.Fatalf("assert %T: %v", in, err)
		}
		if v != int64(7) {
			t.Fatalf("assert %T: expected int64(7), got %T(%v)", in, v, v)
		}
	}
}

func TestInteger_RejectsFractionsAndOverflow(t *testing.T) {
	if _, err := typedesc.Integer.Assert(3.5); err == nil {
		t.Fatalf("3.5 is not an integer")
	}
	if _, err := typedesc.Integer.Assert(uint64(math.MaxInt64) + 1); err == nil {
		t.Fatalf("uint64 above MaxInt64 must overflow")
	}
	if _, err := typedesc.Integer.Assert(1e19); err == nil {
		t.Fatalf("1e19 does not fit int64")
	}
	if _, err := typedesc.Integer.Coerce("not-a-number"); err == nil {
		t.Fatalf("coercion of a non-numeric string must fail")
	}
}

func TestNumber_CoerceAndAssert(t *testing.T) {
	v, err := typedesc.Number.Coerce("3.14")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if v != 3.14 {
		t.Fatalf("expected 3.14, got %v", v)
	}
	v, err = typedesc.Number.Assert(int64(2))
	if err != nil {
		t.Fatalf("assert: %v", err)
	}
	if v != float64(2) {
		t.Fatalf("integers widen to float64, got %T(%v)", v, v)
	}
	if _, err := typedesc.Number.Assert("3.14"); err == nil {
		t.Fatalf("assert must reject a string form")
	}
}

func TestBoolean_CoerceAndAssert(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "1": true, "false": false, "0": false} {
		v, err := typedesc.Boolean.Coerce(in)
		if err != nil {
			t.Fatalf("coerce %q: %v", in, err)
		}
		if v != want {
			t.Fatalf("coerce %q: expected %v, got %v", in, want, v)
		}
	}
	if _, err := typedesc.Boolean.Coerce("yes"); err == nil {
		t.Fatalf("\"yes\" is not a boolean literal")
	}
	if _, err := typedesc.Boolean.Assert(1); err == nil {
		t.Fatalf("assert must reject non-bool values")
	}
}

func TestString_CoerceFromScalars(t *testing.T) {
	cases := map[any]string{
		int64(7):     "7",
		float64(2.5): "2.5",
		true:         "true",
	}
	for in, want := range cases {
		v, err := typedesc.String.Coerce(in)
		if err != nil {
			t.Fatalf("coerce %T: %v", in, err)
		}
		if v != want {
			t.Fatalf("coerce %T: expected %q, got %v", in, want, v)
		}
	}
	if _, err := typedesc.String.Assert(map[string]any{}); err == nil {
		t.Fatalf("a map never stringifies")
	}
}

func TestArray_CoercesScalarsAndStringSlices(t *testing.T) {
	v, err := typedesc.Array.Coerce("single")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 1 || arr[0] != "single" {
		t.Fatalf("a lone scalar wraps into a one-element array, got %v", v)
	}

	v, err = typedesc.Array.Assert([]string{"a", "b"})
	if err != nil {
		t.Fatalf("assert: %v", err)
	}
	arr, ok = v.([]any)
	if !ok || len(arr) != 2 || arr[1] != "b" {
		t.Fatalf("string slices normalize to []any, got %v", v)
	}
}

func TestUUID_FuncShape(t *testing.T) {
	if typedesc.UUID.HasCoercion() {
		t.Fatalf("callable descriptors report no separate coercion")
	}
	const raw = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	v, err := typedesc.UUID.Assert(raw)
	if err != nil {
		t.Fatalf("assert: %v", err)
	}
	id, ok := v.(uuid.UUID)
	if !ok || id.String() != raw {
		t.Fatalf("expected the parsed uuid back, got %T(%v)", v, v)
	}
	if _, err := typedesc.UUID.Assert("not-a-uuid"); err == nil {
		t.Fatalf("garbage must fail")
	}
	// Coerce is a passthrough for Func shapes.
	v, err = typedesc.UUID.Coerce("anything")
	if err != nil || v != "anything" {
		t.Fatalf("coerce must pass through, got %v, %v", v, err)
	}
}

func TestTimestamp_AcceptsBothRFC3339Forms(t *testing.T) {
	for _, in := range []string{
		"2024-01-02T03:04:05Z",
		"2024-01-02T03:04:05.123456789Z",
	} {
		v, err := typedesc.Timestamp.Assert(in)
		if err != nil {
			t.Fatalf("assert %q: %v", in, err)
		}
		ts, ok := v.(time.Time)
		if !ok || ts.Year() != 2024 {
			t.Fatalf("assert %q: expected a time.Time in 2024, got %T(%v)", in, v, v)
		}
	}
	if _, err := typedesc.Timestamp.Assert("02 Jan 24"); err == nil {
		t.Fatalf("only RFC 3339 forms are accepted")
	}
}

func TestRegistry_LookupAndAliases(t *testing.T) {
	for _, kw := range []string{"string", "integer", "number", "boolean", "object", "array", "any", "uuid", "timestamp"} {
		if _, ok := typedesc.Lookup(kw); !ok {
			t.Fatalf("builtin %q not registered", kw)
		}
	}
	d, ok := typedesc.Lookup("int")
	if !ok || d.Name() != "integer" {
		t.Fatalf("alias int should resolve to integer, got %v", d)
	}
	if _, ok := typedesc.Lookup("no_such_type"); ok {
		t.Fatalf("unknown keywords must miss")
	}
}

func TestRegistry_IgnoresEmptyRegistrations(t *testing.T) {
	before := len(typedesc.Keywords())
	typedesc.Register("", typedesc.String)
	typedesc.Register("ghost", nil)
	if len(typedesc.Keywords()) != before {
		t.Fatalf("empty keyword or nil descriptor must not register")
	}
}

func TestIsStructured(t *testing.T) {
	if !typedesc.IsStructured(typedesc.Object) {
		t.Fatalf("object is structured")
	}
	if typedesc.IsStructured(typedesc.String) || typedesc.IsStructured(typedesc.UUID) {
		t.Fatalf("scalars and callables are not structured")
	}
}

func TestConstraint_NilFunctionsPassThrough(t *testing.T) {
	c := &typedesc.Constraint{TypeName: "free"}
	if c.HasCoercion() {
		t.Fatalf("no coerce function, no coercion")
	}
	v, err := c.Assert(42)
	if err != nil || v != 42 {
		t.Fatalf("nil assert accepts anything, got %v, %v", v, err)
	}
}
