// Package log provides structured, context-aware logging with distributed
// tracing support.
//
// The package is built around explicit dependency injection and context
// propagation rather than global state. The SDK itself logs through the
// Logger interface and defaults to a NoopLogger, so importing applications
// stay in control of all output.
//
// # Implementations
//
//   - ZapLogger: production logger based on Uber's zap
//   - NoopLogger: discards all messages (the SDK default)
//   - SpanLogger: decorator that mirrors entries onto a trace span
//
// # Basic Usage
//
// Create a logger and use it directly:
//
//	logger := log.NewZapLogger(log.Config{
//	    Format: "logfmt",
//	    Level:  log.LevelDebug,
//	})
//	logger.Info("client ready", "network", "base-sepolia")
//
// Config fields carry env tags (LOG_FORMAT, LOG_LEVEL, LOG_OUTPUT) so the
// struct can be populated with cleanenv.
//
// # Context Integration
//
//	ctx = log.SetContextLogger(ctx, logger)
//	log.FromContext(ctx).Debug("reloading operation", "id", id)
//
// When SetContextLogger is called with a context containing a valid
// OpenTelemetry span, the logger is wrapped with a SpanLogger and every
// entry is also recorded as a span event; Error entries set the span status
// to error.
//
// # Logger Enrichment
//
//	waitLogger := logger.WithName("poll").WithKV("kind", "staking_operation")
//
// # Caller Attribution in Helpers
//
// Helpers that wrap logging calls should use AddCallerSkip(1) so entries
// point at the real call site:
//
//	func logFailure(lg log.Logger, err error) {
//	    lg.AddCallerSkip(1).Error("request failed", "error", err)
//	}
package log
