package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

func newObserved(level core.LogLevel) (core.Logger, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zap.DebugLevel)
	return NewFromZap(zap.New(obsCore), level), logs
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	log, logs := newObserved(core.LogLevelWarn)

	log.Debug("debug", nil)
	log.Info("info", nil)
	log.Warn("warn", nil)
	log.Error("error", nil)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "warn", logs.All()[0].Message)

	log.SetLevel(core.LogLevelDebug)
	log.Debug("now visible", nil)
	assert.Equal(t, 3, logs.Len())
}

func TestZapLogger_WithAddsFields(t *testing.T) {
	log, logs := newObserved(core.LogLevelInfo)

	child := log.With(map[string]any{"reference": "ref-1"})
	child.Info("status updated", map[string]any{"status": "COMPLETED"})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "ref-1", fields["reference"])
	assert.Equal(t, "COMPLETED", fields["status"])

	assert.Same(t, log, log.With(nil))
}

func TestNoopLogger(t *testing.T) {
	log := NewNoopLogger()
	log.Info("ignored", map[string]any{"a": 1})
	assert.Same(t, log, log.With(map[string]any{"a": 1}))
	assert.NoError(t, log.Flush())
}
