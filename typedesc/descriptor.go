// Package typedesc defines type descriptors: the pluggable coercion and
// assertion units parameter specs are typed with. Two concrete shapes are
// provided behind the one Descriptor interface: declarative Constraint
// values with separate coerce and assert functions, and callable Func
// values that do both in a single step.
package typedesc

// Descriptor turns raw slot values into canonical Go values. Coercion runs
// first when the owning spec keeps it enabled and may fail without
// consequence; the assertion decides acceptance. Implementations must be
// safe for concurrent use.
type Descriptor interface {
	// Name is the canonical keyword, used in diagnostics and export.
	Name() string
	// HasCoercion reports whether Coerce does anything at all.
	HasCoercion() bool
	// Coerce reshapes v toward the canonical type. It must be idempotent
	// for values that are already canonical.
	Coerce(v any) (any, error)
	// Assert checks that v is (or normalizes to) the canonical type and
	// returns the value to keep.
	Assert(v any) (any, error)
}

// Structured is implemented by descriptors whose canonical value exposes
// named fields and therefore supports enclosed specs.
type Structured interface {
	Structured() bool
}

// IsStructured reports whether d describes an object-like value.
func IsStructured(d Descriptor) bool {
	s, ok := d.(Structured)
	return ok && s.Structured()
}

// Constraint is the declarative Descriptor shape: independent coerce and
// assert functions under one type keyword.
type Constraint struct {
	TypeName   string
	CoerceFunc func(any) (any, error) // nil disables coercion
	AssertFunc func(any) (any, error) // nil accepts anything
	Object     bool
}

// Name returns the type keyword.
func (c *Constraint) Name() string { return c.TypeName }

// HasCoercion reports whether a coerce function is attached.
func (c *Constraint) HasCoercion() bool { return c.CoerceFunc != nil }

// Structured reports the object flag.
func (c *Constraint) Structured() bool { return c.Object }

// Coerce applies the coerce function, or passes v through.
func (c *Constraint) Coerce(v any) (any, error) {
	if c.CoerceFunc == nil {
		return v, nil
	}
	return c.CoerceFunc(v)
}

// Assert applies the assert function, or accepts v as-is.
func (c *Constraint) Assert(v any) (any, error) {
	if c.AssertFunc == nil {
		return v, nil
	}
	return c.AssertFunc(v)
}

// Func is the callable Descriptor shape: one function that coerces and
// asserts together. It reports no separate coercion, so the per-spec
// coercion toggle has no effect on it.
type Func struct {
	TypeName string
	Fn       func(any) (any, error)
}

// Name returns the type keyword.
func (f Func) Name() string { return f.TypeName }

// HasCoercion always reports false; Fn owns the whole conversion.
func (f Func) HasCoercion() bool { return false }

// Coerce passes v through untouched.
func (f Func) Coerce(v any) (any, error) { return v, nil }

// Assert runs Fn.
func (f Func) Assert(v any) (any, error) {
	if f.Fn == nil {
		return v, nil
	}
	return f.Fn(v)
}
