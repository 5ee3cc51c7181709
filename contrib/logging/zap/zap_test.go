package zap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/sextant/types"
)

func TestLoggerForwardsToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := New(zap.New(core).Sugar())

	logger.Debug("debug msg", "k", "v")
	logger.Info("info msg", "count", 3)
	logger.Warn("warn msg")
	logger.Error("error msg", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug msg", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.EqualValues(t, 3, entries[1].ContextMap()["count"])

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNewNilFallsBackToNop(t *testing.T) {
	logger := New(nil)
	require.NotNil(t, logger)

	// Must not panic.
	logger.Info("discarded")
}

func TestLoggerImplementsInterface(t *testing.T) {
	var _ types.Logger = New(zap.NewNop().Sugar())
}
