package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	assert.Equal(t, "info", Levels(false, false))
	assert.Equal(t, "debug", Levels(true, false))
	assert.Equal(t, "error", Levels(true, true), "quiet wins over verbose")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.log")
	l, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.With(String("query", "whaling")).Debug("fetching page", Int("start", 0))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"fetching page"`)
	assert.Contains(t, string(data), `"query":"whaling"`)
	assert.Contains(t, string(data), `"start":0`)
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded", Bool("ok", true))
	assert.NotNil(t, l.With(String("k", "v")))
}
