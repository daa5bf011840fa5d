package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/olivier-w/epicycles/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epicycles.log")
	log, err := New(config.LoggingConfig{Level: "info", File: path}, false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestVerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epicycles.log")
	log, err := New(config.LoggingConfig{Level: "error", File: path}, true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"}, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "log level"))
}

func TestTerminalUIWithoutFileIsSilent(t *testing.T) {
	log, err := ForTerminalUI(config.LoggingConfig{Level: "debug"}, true)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}
