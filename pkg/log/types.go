package log

// Logger is the logging interface the SDK writes through.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs low-level detail, such as outbound request descriptors.
	// keysAndValues adds structured context (e.g., "method", "GET").
	Debug(msg string, keysAndValues ...any)
	// Info logs routine progress, such as an operation reaching a terminal state.
	// keysAndValues adds structured context (e.g., "operation", id).
	Info(msg string, keysAndValues ...any)
	// Warn logs unexpected situations the caller can continue through.
	// keysAndValues adds structured context (e.g., "attempt", n).
	Warn(msg string, keysAndValues ...any)
	// Error logs failures that need attention.
	// keysAndValues adds structured context (e.g., "error", err).
	Error(msg string, keysAndValues ...any)
	// WithKV returns a logger that includes the key-value pair in all future entries.
	WithKV(key string, value any) Logger
	// WithName returns a logger with a component name appended to its hierarchy.
	WithName(name string) Logger
	// Name returns the logger's name.
	Name() string
	// AddCallerSkip returns a logger that skips extra stack frames when
	// reporting the log source; returns itself if unsupported.
	AddCallerSkip(skip int) Logger
}

// Level represents the severity of a log message.
type Level string

const (
	// LevelDebug is the most verbose level.
	LevelDebug Level = "debug"
	// LevelInfo is used for informational messages.
	LevelInfo Level = "info"
	// LevelWarn is used for warnings that indicate potential issues.
	LevelWarn Level = "warn"
	// LevelError is used when something went wrong.
	LevelError Level = "error"
)

// SpanEventRecorder records log events onto a trace span.
type SpanEventRecorder interface {
	// TraceID returns the trace ID of the span.
	TraceID() string
	// SpanID returns the span ID of the span.
	SpanID() string

	// RecordEvent records an event to the span.
	// keysAndValues are treated as pairs (e.g., "key1", value1, "key2", value2).
	RecordEvent(name string, keysAndValues ...any)
	// RecordError records an error event to the span.
	// keysAndValues are treated as pairs (e.g., "key1", value1, "key2", value2).
	RecordError(name string, keysAndValues ...any)
}
