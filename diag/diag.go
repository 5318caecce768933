// Package diag adapts engine diagnostics to logging and metrics backends.
package diag

import (
	"github.com/rs/zerolog"

	declared "github.com/parametry/declared"
)

// Logger returns a sink that writes every event through the given zerolog
// logger. Warnings log at warn level, everything else at info.
func Logger(l zerolog.Logger) declared.Sink {
	return loggerSink{l: l}
}

type loggerSink struct{ l zerolog.Logger }

func (s loggerSink) Emit(e declared.Event) {
	var ev *zerolog.Event
	switch e.Level {
	case declared.LevelWarn:
		ev = s.l.Warn()
	default:
		ev = s.l.Info()
	}
	ev = ev.Str("code", e.Code).Str("param", e.Param).Str("path", e.Path)
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg(e.Message)
}

// Tee fans events out to several sinks. Nil entries are skipped.
func Tee(sinks ...declared.Sink) declared.Sink {
	kept := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return kept
}

type teeSink []declared.Sink

func (t teeSink) Emit(e declared.Event) {
	for _, s := range t {
		s.Emit(e)
	}
}
