package events

import (
	"log/slog"

	"centerview/internal/logging"
)

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) {}

// LogSink forwards events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink wraps a logger as a Sink. A nil logger yields a no-op sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogSink{logger: logger.With(logging.String(logging.FieldComponent, "events"))}
}

func (s *LogSink) Publish(event Event) {
	if event == nil {
		return
	}
	switch e := event.(type) {
	case ErrorEvent:
		s.logger.Error(e.Message(), logging.String("event", e.Kind()), logging.String("context", e.Context))
	case Toggled:
		s.logger.Info(e.Message(),
			logging.String("event", e.Kind()),
			logging.String(logging.FieldPath, e.Path),
			logging.String("from", e.From),
			logging.String("to", e.To),
		)
	case ApplyFinished:
		s.logger.Info(e.Message(),
			logging.String("event", e.Kind()),
			logging.String(logging.FieldRunID, e.RunID),
			logging.Int("moved", e.Moved),
			logging.Int("already_applied", e.AlreadyApplied),
			logging.Int("failed", e.Failed),
		)
	default:
		s.logger.Info(event.Message(), logging.String("event", event.Kind()))
	}
}

// Multi fans events out to every provided sink in order.
type Multi struct {
	sinks []Sink
}

// NewMulti combines sinks, skipping nils.
func NewMulti(sinks ...Sink) *Multi {
	kept := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return &Multi{sinks: kept}
}

func (m *Multi) Publish(event Event) {
	for _, sink := range m.sinks {
		sink.Publish(event)
	}
}
