package log

import (
	"os"
	"path/filepath"
	"time"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = &ZapLogger{}

// ZapLogger is a Logger backed by Uber's zap.
// It supports console, logfmt and json output, configured from the environment.
type ZapLogger struct {
	lg *zap.SugaredLogger
}

// Config configures the ZapLogger. Fields map to environment variables
// so the logger can be tuned without code changes.
type Config struct {
	Format string `env:"LOG_FORMAT" env-default:"console"` // console, logfmt or json
	Level  Level  `env:"LOG_LEVEL" env-default:"info"`     // debug, info, warn or error
	Output string `env:"LOG_OUTPUT" env-default:"stderr"`  // stderr, stdout or a file path
}

// NewZapLogger creates a ZapLogger with the given configuration.
// Extra write syncers receive a copy of every entry, which tests use
// to capture output.
func NewZapLogger(conf Config, extraWriters ...zapcore.WriteSyncer) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	ws := zapcore.NewMultiWriteSyncer(append(extraWriters, openOutput(conf.Output))...)
	core := zapcore.NewCore(encoder, ws, toZapLogLevel(conf.Level))
	// AddCallerSkip(2) skips the ZapLogger wrapper methods in the call stack.
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()

	return &ZapLogger{lg: zl}
}

// openOutput resolves the configured destination, falling back to stderr
// when a file cannot be opened.
func openOutput(output string) zapcore.WriteSyncer {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr)
	case "stdout":
		return zapcore.Lock(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return zapcore.Lock(os.Stderr)
	}
	file, err := os.OpenFile(output, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(file)
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs a message at info level.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.log(LevelWarn, msg, keysAndValues...)
}

// Error logs a message at error level.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues...)
}

func (l *ZapLogger) log(level Level, msg string, keysAndValues ...any) {
	l.lg.Logw(toZapLogLevel(level), msg, keysAndValues...)
}

// WithKV returns a new ZapLogger carrying the key-value pair on all future entries.
func (l *ZapLogger) WithKV(key string, value any) Logger {
	return &ZapLogger{lg: l.lg.With(key, value)}
}

// WithName returns a new ZapLogger with the given name appended to the
// dot-separated logger hierarchy.
func (l *ZapLogger) WithName(name string) Logger {
	return &ZapLogger{lg: l.lg.Named(name)}
}

// Name returns the current name of the logger.
func (l *ZapLogger) Name() string {
	return l.lg.Desugar().Name()
}

// AddCallerSkip returns a new ZapLogger that skips additional stack frames
// when determining the caller.
func (l *ZapLogger) AddCallerSkip(skip int) Logger {
	return &ZapLogger{lg: l.lg.WithOptions(zap.AddCallerSkip(skip))}
}

func toZapLogLevel(logLevel Level) zapcore.Level {
	switch logLevel {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
