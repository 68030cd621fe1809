package log

var _ Logger = SpanLogger{}

// SpanLogger wraps another logger and additionally records every entry as an
// event on a trace span, so SDK calls can be correlated with distributed traces.
type SpanLogger struct {
	lg  Logger
	ser SpanEventRecorder
}

// NewSpanLogger creates a SpanLogger over the provided logger and recorder.
// The wrapped logger's caller skip is incremented by one to account for the
// SpanLogger wrapper frame.
func NewSpanLogger(lg Logger, ser SpanEventRecorder) Logger {
	return SpanLogger{
		lg:  lg.AddCallerSkip(1),
		ser: ser,
	}
}

// Debug logs a debug message to both the wrapped logger and the span.
func (sl SpanLogger) Debug(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelDebug, keysAndValues)...)
	sl.lg.Debug(msg, sl.withTraceContext(keysAndValues)...)
}

// Info logs an info message to both the wrapped logger and the span.
func (sl SpanLogger) Info(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelInfo, keysAndValues)...)
	sl.lg.Info(msg, sl.withTraceContext(keysAndValues)...)
}

// Warn logs a warning message to both the wrapped logger and the span.
func (sl SpanLogger) Warn(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelWarn, keysAndValues)...)
	sl.lg.Warn(msg, sl.withTraceContext(keysAndValues)...)
}

// Error logs an error message to both the wrapped logger and the span.
// The entry is recorded as an error event on the span.
func (sl SpanLogger) Error(msg string, keysAndValues ...any) {
	sl.ser.RecordError(msg, sl.withLogContext(LevelError, keysAndValues)...)
	sl.lg.Error(msg, sl.withTraceContext(keysAndValues)...)
}

// WithKV returns a new SpanLogger with the key-value pair added to the
// wrapped logger. The SpanEventRecorder remains the same.
func (sl SpanLogger) WithKV(key string, value any) Logger {
	return SpanLogger{
		lg:  sl.lg.WithKV(key, value),
		ser: sl.ser,
	}
}

// WithName returns a new SpanLogger with the name set on the wrapped logger.
// The SpanEventRecorder remains the same.
func (sl SpanLogger) WithName(name string) Logger {
	return SpanLogger{
		lg:  sl.lg.WithName(name),
		ser: sl.ser,
	}
}

// Name returns the name of the wrapped logger.
func (sl SpanLogger) Name() string {
	return sl.lg.Name()
}

// AddCallerSkip returns a new SpanLogger with increased caller skip on the wrapped logger.
func (sl SpanLogger) AddCallerSkip(skip int) Logger {
	return SpanLogger{
		lg:  sl.lg.AddCallerSkip(skip),
		ser: sl.ser,
	}
}

// withTraceContext prepends the trace and span IDs so log entries can be
// joined with the trace that produced them.
func (sl SpanLogger) withTraceContext(keysAndValues []any) []any {
	return append([]any{
		"traceId", sl.ser.TraceID(),
		"spanId", sl.ser.SpanID(),
	}, keysAndValues...)
}

// withLogContext prepends the level and component name so span events carry
// the same context the log line does.
func (sl SpanLogger) withLogContext(level Level, keysAndValues []any) []any {
	return append([]any{
		"level", string(level),
		"component", sl.lg.Name(),
	}, keysAndValues...)
}
