package declared

import "sync"

// Level expresses the severity of a diagnostic event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

// String returns the lowercase level name used in logs and metric labels.
func (l Level) String() string {
	if l == LevelWarn {
		return "warn"
	}
	return "info"
}

// Event is a single diagnostic emitted while compiling specs or validating
// values. Events never change outcomes; they exist for logs and metrics.
type Event struct {
	Level   Level
	Code    string // shares the Issue code vocabulary
	Param   string // leaf parameter name
	Path    string // slot path, e.g. /profile/age
	Message string
	Fields  map[string]any // structured context: type, value, pattern, ...
}

// Sink receives diagnostic events. Implementations shared across
// resolutions must be safe for concurrent use.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Collector is a Sink that records events in memory, mainly for tests.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends the event.
func (c *Collector) Emit(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a snapshot of everything captured so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// emit forwards to the sink when one is configured.
func emit(s Sink, e Event) {
	if s == nil {
		return
	}
	s.Emit(e)
}
