package log_test

import "github.com/cdp-cloud/cdp-sdk-go/pkg/log"

var _ log.Logger = &MockLogger{}

// MockLogger is a test double for the Logger interface. It captures the last
// entry and tracks logger state so wrapper behavior can be verified.
type MockLogger struct {
	lastEntry MockLogEntry

	name          string
	keysAndValues []any
	callerSkip    int
}

// NewMockLogger creates a mock logger with default values.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		name:          "mock",
		keysAndValues: []any{},
	}
}

// MockLogEntry is a captured log entry with its metadata.
type MockLogEntry struct {
	Level         log.Level
	Message       string
	KeysAndValues []any
}

// Debug captures a debug level log entry.
func (ml *MockLogger) Debug(msg string, keysAndValues ...any) {
	ml.updateLastEntry(log.LevelDebug, msg, keysAndValues...)
}

// Info captures an info level log entry.
func (ml *MockLogger) Info(msg string, keysAndValues ...any) {
	ml.updateLastEntry(log.LevelInfo, msg, keysAndValues...)
}

// Warn captures a warning level log entry.
func (ml *MockLogger) Warn(msg string, keysAndValues ...any) {
	ml.updateLastEntry(log.LevelWarn, msg, keysAndValues...)
}

// Error captures an error level log entry.
func (ml *MockLogger) Error(msg string, keysAndValues ...any) {
	ml.updateLastEntry(log.LevelError, msg, keysAndValues...)
}

// WithKV adds a key-value pair that will be merged into subsequent entries.
func (ml *MockLogger) WithKV(key string, value any) log.Logger {
	ml.keysAndValues = append(ml.keysAndValues, key, value)
	return ml
}

// WithName sets the logger's name.
func (ml *MockLogger) WithName(name string) log.Logger {
	ml.name = name
	return ml
}

// Name returns the current logger name.
func (ml *MockLogger) Name() string {
	return ml.name
}

// AddCallerSkip increases the caller skip count so tests can verify that
// wrappers adjust the skip level.
func (ml *MockLogger) AddCallerSkip(skip int) log.Logger {
	ml.callerSkip += skip
	return ml
}

// CallerSkip returns the accumulated caller skip count.
func (ml *MockLogger) CallerSkip() int {
	return ml.callerSkip
}

// LastEntry returns the most recently captured log entry.
func (ml *MockLogger) LastEntry() MockLogEntry {
	return ml.lastEntry
}

func (ml *MockLogger) updateLastEntry(level log.Level, msg string, keysAndValues ...any) {
	ml.lastEntry = MockLogEntry{
		Level:         level,
		Message:       msg,
		KeysAndValues: append(ml.keysAndValues, keysAndValues...),
	}
}
