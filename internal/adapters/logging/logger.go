// Package logging provides structured logging for dbt-lineage, backed by
// zap. All logs go to stderr to avoid interleaving with the TUI's stdout
// rendering and the JSON/TOON output formats.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Ensure Logger implements usecases.Logger interface.
var _ usecases.Logger = (*Logger)(nil)

// Level selects the minimum severity a Logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger wraps a zap.SugaredLogger to satisfy usecases.Logger's
// keys-and-values call shape.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New creates a Logger at the given level, writing JSON-encoded entries to
// stderr.
func New(level Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		// Falls back to a no-op logger rather than panicking the CLI on a
		// logging-config error; the tool's primary function does not
		// depend on logging succeeding.
		zl = zap.NewNop()
	}
	return &Logger{sugar: zl.Sugar()}
}

// WithContext returns a logger that includes the given context. No values
// are currently extracted from ctx; this exists so a future request/trace
// id can be threaded through without changing the port.
func (l *Logger) WithContext(ctx context.Context) usecases.Logger {
	return l
}

// WithFields returns a logger with additional structured fields attached to
// every subsequent call.
func (l *Logger) WithFields(keysAndValues ...any) usecases.Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs an error, attaching err under the "error" key when non-nil.
func (l *Logger) Error(msg string, err error, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err.Error())
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries; callers should defer it from main.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// global is the package-level logger returned by GetLogger and replaced
// by SetLevel.
var global = New(LevelInfo)

// SetLevel replaces the global logger at the given level.
func SetLevel(level Level) {
	global = New(level)
}

// GetLogger returns the global logger.
func GetLogger() *Logger {
	return global
}
