package log_test

// MockSpanEventRecorder is a test double for the SpanEventRecorder interface.
// It captures the last recorded event and tracks whether an error was recorded.
type MockSpanEventRecorder struct {
	traceID           string
	spanID            string
	hasErr            bool
	lastEventMetadata []any
}

// NewMockSpanEventRecorder creates a mock with the given trace and span IDs.
func NewMockSpanEventRecorder(traceID, spanID string) *MockSpanEventRecorder {
	return &MockSpanEventRecorder{
		traceID: traceID,
		spanID:  spanID,
	}
}

// TraceID returns the configured trace ID.
func (ser *MockSpanEventRecorder) TraceID() string {
	return ser.traceID
}

// SpanID returns the configured span ID.
func (ser *MockSpanEventRecorder) SpanID() string {
	return ser.spanID
}

// RecordEvent captures the event name and metadata, with a "msg" key
// prepended for assertion convenience.
func (ser *MockSpanEventRecorder) RecordEvent(name string, keysAndValues ...any) {
	ser.lastEventMetadata = append([]any{"msg", name}, keysAndValues...)
}

// RecordError captures the event like RecordEvent and flags the error.
func (ser *MockSpanEventRecorder) RecordError(name string, keysAndValues ...any) {
	ser.hasErr = true
	ser.lastEventMetadata = append([]any{"msg", name}, keysAndValues...)
}

// LastEventMetadata returns the metadata from the most recent event.
func (ser *MockSpanEventRecorder) LastEventMetadata() []any {
	return ser.lastEventMetadata
}

// HasError reports whether RecordError was called at least once.
func (ser *MockSpanEventRecorder) HasError() bool {
	return ser.hasErr
}
