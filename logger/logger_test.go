package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/logger"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logger.ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, logger.ParseLevel(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, logger.ParseLevel("chatty"))
	assert.Equal(t, zapcore.InfoLevel, logger.ParseLevel(""))
}

func TestNewLogger(t *testing.T) {
	log, err := logger.NewLogger("error")
	require.NoError(t, err)
	assert.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.ErrorLevel))

	child := log.With("component", "test")
	assert.NotNil(t, child)
}
