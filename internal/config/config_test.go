package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cueline/internal/subtitle"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cueline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5.0, cfg.Caption.DefaultDuration)
	assert.False(t, cfg.Caption.StrictTiming)
	assert.Equal(t, "127.0.0.1:8790", cfg.Addr())
	assert.Equal(t, subtitle.FormatSRT, cfg.ExportFormat())
	assert.Equal(t, "gemini", cfg.Translate.Provider)
	assert.Equal(t, 50, cfg.Translate.BatchSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
caption:
  default_duration: 2.5
  strict_timing: true
server:
  port: 9000
  read_timeout: 30s
export:
  format: VTT
  filename: talk.vtt
translate:
  provider: Anthropic
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Caption.DefaultDuration)
	assert.True(t, cfg.Caption.StrictTiming)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, subtitle.FormatVTT, cfg.ExportFormat())
	assert.Equal(t, "talk.vtt", cfg.Export.Filename)
	assert.Equal(t, "anthropic", cfg.Translate.Provider)
	assert.Equal(t, 3, cfg.Translate.Concurrency)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadNormalizesNonPositiveValues(t *testing.T) {
	path := writeConfig(t, `
caption:
  default_duration: -3
translate:
  batch_size: 0
  concurrency: -1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Caption.DefaultDuration)
	assert.Equal(t, DefaultBatchSize, cfg.Translate.BatchSize)
	assert.Equal(t, DefaultConcurrency, cfg.Translate.Concurrency)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMissingDefaultPathFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Addr(), cfg.Addr())
	assert.Empty(t, cfg.Path())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "server:\n  port: 70000\n"},
		{"format", "export:\n  format: docx\n"},
		{"provider", "translate:\n  provider: bard\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "caption: [unterminated\n"))
	assert.Error(t, err)
}
