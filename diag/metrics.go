package diag

import (
	"github.com/prometheus/client_golang/prometheus"

	declared "github.com/parametry/declared"
)

// Metrics counts diagnostic events by code and level.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics builds the event counter and registers it with reg when one
// is given.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "declared_validation_events_total",
			Help: "Diagnostic events emitted during parameter compilation and validation.",
		}, []string{"code", "level"}),
	}
	if reg != nil {
		reg.MustRegister(m.events)
	}
	return m
}

// Sink returns the event-counting sink.
func (m *Metrics) Sink() declared.Sink {
	return metricsSink{m: m}
}

// Events exposes the counter vector, mainly for tests and custom
// registries.
func (m *Metrics) Events() *prometheus.CounterVec { return m.events }

type metricsSink struct{ m *Metrics }

func (s metricsSink) Emit(e declared.Event) {
	s.m.events.WithLabelValues(e.Code, e.Level.String()).Inc()
}
