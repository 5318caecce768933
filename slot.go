package declared

// Slot is the tri-state raw input handed to Validate: a parameter is
// absent, present with an explicit null, or present with a value. The
// distinction matters because a present null is a value like any other,
// while absence triggers requiredness and default handling.
type Slot struct {
	present bool
	value   any
}

// AbsentSlot returns the slot for a parameter that never appeared.
func AbsentSlot() Slot { return Slot{} }

// ValueSlot wraps a raw value, including an explicit nil.
func ValueSlot(v any) Slot { return Slot{present: true, value: v} }

// SlotOf probes a source map, distinguishing a missing key from a key
// bound to nil.
func SlotOf(m map[string]any, key string) Slot {
	v, ok := m[key]
	if !ok {
		return Slot{}
	}
	return Slot{present: true, value: v}
}

// Present reports whether the slot carries anything at all.
func (s Slot) Present() bool { return s.present }

// IsNull reports a present, explicitly null value.
func (s Slot) IsNull() bool { return s.present && s.value == nil }

// Value returns the raw value; meaningful only when Present.
func (s Slot) Value() any { return s.value }

// Presence is the bit flag collected by ResolveWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Parameter appeared in the merged input.
	PresenceWasNull                             // The supplied value was an explicit null.
	PresenceDefaultApplied                      // The spec default filled the slot.
)

// PresenceMap maps parameter names to Presence flags.
type PresenceMap map[string]Presence
