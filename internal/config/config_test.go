package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("EPICYCLES_LOG_FILE", "")
	t.Setenv("EPICYCLES_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("EPICYCLES_LOG_FILE", "")
	t.Setenv("EPICYCLES_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
animation:
  analyzer:
    terms: 40
  duration_seconds: 12
  resize_debounce: 100ms
  flock:
    count: 5
logging:
  level: debug
watch: false
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Animation.Analyzer.Terms)
	assert.Equal(t, 600, cfg.Animation.Analyzer.SampleCount, "unset fields keep defaults")
	assert.Equal(t, 12.0, cfg.Animation.DurationSeconds)
	assert.Equal(t, 100*time.Millisecond, cfg.Animation.ResizeDebounce)
	assert.Equal(t, 5, cfg.Animation.Flock.Count)
	assert.Equal(t, 20, cfg.Animation.Flock.Trail)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Watch)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("animation:\n  frame_rate: 0\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))
	_, err = Load(path)
	require.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, os.WriteFile(path, []byte("animation: [\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EPICYCLES_LOG_FILE", "/tmp/epicycles.log")
	t.Setenv("EPICYCLES_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/epicycles.log", cfg.Logging.File)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveRoundTrips(t *testing.T) {
	t.Setenv("EPICYCLES_LOG_FILE", "")
	t.Setenv("EPICYCLES_LOG_LEVEL", "")

	cfg := Default()
	cfg.Animation.Analyzer.Terms = 12
	cfg.Banner.Messages = []string{"hello"}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "resize_debounce: 250ms")
}
