package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// Options configures a zap-backed logger
type Options struct {
	Production bool   // JSON encoder and ISO8601 timestamps
	Level      string // debug, info, warn or error
	Output     string // stdout, stderr or a file path
	CallerInfo bool
}

// ZapLogger implements the Logger interface using Zap
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger creates a new zap-based logger instance
func NewZapLogger(opts Options) core.Logger {
	var cfg zap.Config

	if opts.Production {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.DisableCaller = !opts.CallerInfo
	if opts.Output != "" {
		cfg.OutputPaths = []string{opts.Output}
	}

	level := zap.NewAtomicLevelAt(toZapLevel(core.ParseLogLevel(opts.Level)))
	cfg.Level = level

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return &ZapLogger{logger: zapLogger, level: level}
}

// NewDefaultLogger creates a development console logger
func NewDefaultLogger() core.Logger {
	return NewZapLogger(Options{Level: "info", CallerInfo: true})
}

// NewFromZap wraps an existing zap logger
func NewFromZap(z *zap.Logger, level core.LogLevel) core.Logger {
	return &ZapLogger{logger: z, level: zap.NewAtomicLevelAt(toZapLevel(level))}
}

func toZapLevel(level core.LogLevel) zapcore.Level {
	switch level {
	case core.LogLevelDebug:
		return zap.DebugLevel
	case core.LogLevelWarn:
		return zap.WarnLevel
	case core.LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// SetLevel sets the minimum log level
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	l.level.SetLevel(toZapLevel(level))
}

// With returns a child logger sharing the level that adds fields to every entry
func (l *ZapLogger) With(fields map[string]any) core.Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{logger: l.logger.With(mapToZapFields(fields)...), level: l.level}
}

// mapToZapFields converts a map of fields to zap fields
func mapToZapFields(fields map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

func (l *ZapLogger) enabled(level zapcore.Level) bool {
	return l.level.Enabled(level)
}

// Debug logs debug messages
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	if !l.enabled(zap.DebugLevel) {
		return
	}
	l.logger.Debug(message, mapToZapFields(fields)...)
}

// Info logs informational messages
func (l *ZapLogger) Info(message string, fields map[string]any) {
	if !l.enabled(zap.InfoLevel) {
		return
	}
	l.logger.Info(message, mapToZapFields(fields)...)
}

// Warn logs warning messages
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	if !l.enabled(zap.WarnLevel) {
		return
	}
	l.logger.Warn(message, mapToZapFields(fields)...)
}

// Error logs error messages
func (l *ZapLogger) Error(message string, fields map[string]any) {
	l.logger.Error(message, mapToZapFields(fields)...)
}

// Flush ensures all buffered logs are written
func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}
