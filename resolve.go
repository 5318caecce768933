package declared

import "context"

// Params holds resolved values keyed by parameter name.
type Params map[string]any

// Resolved couples resolved params with presence metadata.
type Resolved struct {
	Params   Params
	Presence PresenceMap
}

// Resolve validates every spec in the set against the merged input bag.
//
// A failed required parameter aborts the whole resolution; the remaining
// specs are not evaluated. A failed optional parameter is dropped entirely,
// its default included. Defaults fill only slots that were absent, and they
// are recorded verbatim.
func Resolve(ctx context.Context, set *ParamSet, merged map[string]any, opts ...ResolveOpt) (Params, error) {
	res, err := ResolveWithMeta(ctx, set, merged, opts...)
	if err != nil {
		return nil, err
	}
	return res.Params, nil
}

// ResolveWithMeta is Resolve plus a PresenceMap telling, per resolved name,
// whether the value was seen in the input, was an explicit null, or came
// from the spec default.
func ResolveWithMeta(ctx context.Context, set *ParamSet, merged map[string]any, opts ...ResolveOpt) (Resolved, error) {
	var ro ResolveOpt
	if len(opts) > 0 {
		ro = opts[len(opts)-1]
	}
	out := Resolved{
		Params:   make(Params, set.Len()),
		Presence: make(PresenceMap, set.Len()),
	}
	vo := ValidateOpt{Sink: ro.Sink}
	for _, sp := range set.Specs() {
		slot := SlotOf(merged, sp.name)
		v, err := validate(ctx, sp, slot, "/"+sp.name, vo)
		if err != nil {
			if sp.required {
				return Resolved{}, err
			}
			// Optional failure: the parameter is skipped, never defaulted.
			continue
		}
		switch {
		case slot.Present():
			out.Params[sp.name] = v
			out.Presence[sp.name] |= PresenceSeen
			if slot.IsNull() {
				out.Presence[sp.name] |= PresenceWasNull
			}
		case sp.hasDefault:
			out.Params[sp.name] = sp.def
			out.Presence[sp.name] |= PresenceDefaultApplied
		}
	}
	return out, nil
}
