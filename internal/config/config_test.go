package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("explicit data dir wins", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		t.Setenv("TASKTRACK_DATA_DIR", dir)
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		t.Setenv("TASKTRACK_LOG_LEVEL", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.DataDir)
		assert.DirExists(t, dir)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, filepath.Join(dir, TasksFile), cfg.Path(TasksFile))
	})

	t.Run("falls back to XDG data home", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("TASKTRACK_DATA_DIR", "")
		t.Setenv("XDG_DATA_HOME", xdg)
		t.Setenv("TASKTRACK_LOG_LEVEL", "DEBUG")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(xdg, "tasktrack"), cfg.DataDir)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		t.Setenv("TASKTRACK_DATA_DIR", t.TempDir())
		t.Setenv("TASKTRACK_LOG_LEVEL", "chatty")

		_, err := Load()
		assert.ErrorContains(t, err, "chatty")
	})
}
