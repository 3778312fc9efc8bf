package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuild_EncodesCustomKeys(t *testing.T) {
	var buf bytes.Buffer
	log, err := build("debug", zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Info("simulation done", zap.String("symbol", "AAPL"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "simulation done", entry["message"])
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := build("warn", zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	require.Error(t, err)
}

func TestNew_EmptyLevelIsInfo(t *testing.T) {
	log, err := New("")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
