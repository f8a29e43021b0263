package eventlog

// Logger is the interface subsystems use to record pipeline events.
// Pass nil-safe NoopLogger to disable event logging.
type Logger interface {
	// Log records a pipeline event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking slows
	// down dispatch.
	Log(event Event)
}

// NoopLogger discards all events. Use when event logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
