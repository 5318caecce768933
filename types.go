package declared

// CompileOpt bundles construction options. The last option wins when
// several are passed.
type CompileOpt struct {
	// Sink receives construction diagnostics (bad locations, dropped
	// enclosed definitions, unreachable defaults).
	Sink Sink
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// Quiet suppresses diagnostic events. Outcomes are identical either
	// way; only the event stream disappears.
	Quiet bool
	Sink  Sink
}

// ResolveOpt bundles resolution options. Resolution always validates
// loudly; route its sink somewhere quiet instead when silence is wanted.
type ResolveOpt struct {
	Sink Sink
}
