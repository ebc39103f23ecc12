package logger

import (
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// NoopLogger implements the Logger interface but doesn't do anything.
// Useful for tests or when logging is disabled.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return &NoopLogger{}
}

// SetLevel does nothing
func (l *NoopLogger) SetLevel(core.LogLevel) {}

// With returns the same logger
func (l *NoopLogger) With(map[string]any) core.Logger { return l }

// Debug does nothing
func (l *NoopLogger) Debug(string, map[string]any) {}

// Info does nothing
func (l *NoopLogger) Info(string, map[string]any) {}

// Warn does nothing
func (l *NoopLogger) Warn(string, map[string]any) {}

// Error does nothing
func (l *NoopLogger) Error(string, map[string]any) {}

// Flush has nothing to flush
func (l *NoopLogger) Flush() error { return nil }
