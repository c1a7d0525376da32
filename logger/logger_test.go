package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewEmptyPathIsNop(t *testing.T) {
	log, err := New("", "debug")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storesearch.log")

	log, err := New(path, "warn")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("fetch failed", zap.String("query", "shirt"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"fetch failed"`)
	assert.Contains(t, string(data), `"query":"shirt"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewWithAppliesHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	log, err := NewWith(path, "info", func(cfg *zap.Config) {
		cfg.InitialFields = map[string]any{"component": "test"}
	})
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
