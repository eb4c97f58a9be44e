package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/katalvlaran/specunfold/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, logging.NewDefaultConfig().Validate())
	assert.Error(t, logging.Config{Level: "info", Format: "xml"}.Validate())
	assert.Error(t, logging.Config{Level: "loud", Format: "json"}.Validate())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("prior rejected", zap.String("method", "gold"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "prior rejected", entry["msg"])
	assert.Equal(t, "gold", entry["method"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewObserved(t *testing.T) {
	l, logs := logging.NewObserved(zapcore.DebugLevel)
	l.Debug("iteration", zap.Int("k", 3))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["k"])
}

func TestLevelFromString(t *testing.T) {
	l, err := logging.LevelFromString("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l)

	_, err = logging.LevelFromString("nope")
	assert.Error(t, err)
}
