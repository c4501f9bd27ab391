package logging

// LeveledLogger is what harness components need to emit records. They get one
// from Registry.Logger by name and never touch sinks or thresholds.
type LeveledLogger interface {
	Name() string

	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	CriticalWith() LogEvent

	// With for context logger creation
	// Creates a new logger with pre-populated fields that will be included in all subsequent logs
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}
