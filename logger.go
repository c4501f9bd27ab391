package logging

import (
	"github.com/rs/zerolog"
)

// Logger is a named logger in a Registry. Loggers obtained from With() share
// the name, threshold and sinks of their parent and add bound fields.
type Logger struct {
	node     *node
	registry *Registry
	fields   []func(*zerolog.Event)
}

var _ LeveledLogger = (*Logger)(nil)

func (l *Logger) Name() string {
	return l.node.name
}

// SetLevel sets this logger's own threshold.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.node.level.Store(int32(level))
}

// ResetLevel clears this logger's own threshold so it inherits again.
// The root logger always keeps a threshold.
func (l *Logger) ResetLevel() {
	if l.node.parent == nil {
		return
	}
	l.node.level.Store(levelNotSet)
}

// Level returns this logger's own threshold and whether one is set.
func (l *Logger) Level() (zerolog.Level, bool) {
	v := l.node.level.Load()
	if v == levelNotSet {
		return zerolog.NoLevel, false
	}
	return zerolog.Level(v), true
}

// EffectiveLevel is the threshold applied to records emitted through l.
func (l *Logger) EffectiveLevel() zerolog.Level {
	return effectiveLevel(l.node)
}

// Enabled reports whether a record at level would pass this logger.
func (l *Logger) Enabled(level zerolog.Level) bool {
	return level >= l.EffectiveLevel()
}

// SetPropagate controls whether records continue to ancestor sinks.
func (l *Logger) SetPropagate(propagate bool) {
	l.node.propagate.Store(propagate)
}

// AddSink attaches s to this logger. Attaching the same sink twice is a no-op.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		return
	}
	l.node.addSink(s)
}

// RemoveSink detaches s and reports whether it was attached.
func (l *Logger) RemoveSink(s Sink) bool {
	return l.node.removeSink(s)
}

// Sinks returns the sinks attached directly to this logger.
func (l *Logger) Sinks() []Sink {
	cur := *l.node.sinks.Load()
	out := make([]Sink, len(cur))
	copy(out, cur)
	return out
}

func (l *Logger) DebugWith() LogEvent    { return l.event(DebugLevel) }
func (l *Logger) InfoWith() LogEvent     { return l.event(InfoLevel) }
func (l *Logger) WarnWith() LogEvent     { return l.event(WarningLevel) }
func (l *Logger) ErrorWith() LogEvent    { return l.event(ErrorLevel) }
func (l *Logger) CriticalWith() LogEvent { return l.event(CriticalLevel) }

// Log returns an event at an arbitrary level.
func (l *Logger) Log(level zerolog.Level) LogEvent {
	return l.event(level)
}

// With returns a LogContext for creating a child logger with pre-populated fields.
// Example: reqLogger := logger.With().Str("request_id", id).Logger()
func (l *Logger) With() LogContext {
	fields := make([]func(*zerolog.Event), len(l.fields))
	copy(fields, l.fields)
	return &logContext{parent: l, fields: fields}
}

// event creates a tracked log event when level passes the logger threshold.
// The registry counts the event as in flight until Msg, Msgf or Send.
func (l *Logger) event(level zerolog.Level) LogEvent {
	if l == nil || l.node == nil || l.registry == nil {
		return noopEvent
	}
	if level == zerolog.NoLevel || level == zerolog.Disabled || !l.Enabled(level) {
		return noopEvent
	}

	r := l.registry
	r.activeOps.Add(1)

	rec := &Record{
		Time:   r.now(),
		Level:  level,
		Logger: l.node.name,
	}
	if len(l.fields) > 0 {
		rec.fields = append(make([]func(*zerolog.Event), 0, len(l.fields)+4), l.fields...)
	}
	return &logEvent{rec: rec, logger: l}
}

func (l *Logger) done() {
	l.registry.activeOps.Add(-1)
}
