package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledDiscards(t *testing.T) {
	require.NoError(t, Init(Options{Enabled: false, Dir: t.TempDir()}))
	Info("nothing", "k", 1)
	Sync()
}

func TestInitWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Enabled: true, Dir: dir, Level: "debug"}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Debug("parsed database", "path", "thumbcache_32.db", "entries", 3)
	Warn("invalid cache entry", "offset", 24)
	Sync()

	data, err := os.ReadFile(logFileName(dir, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"parsed database"`)
	assert.Contains(t, string(data), `"entries":3`)
	assert.Contains(t, string(data), `"level":"warn"`)
}

func TestLevelFilters(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Enabled: true, Dir: dir, Level: "warn"}))
	t.Cleanup(func() { _ = Init(Options{}) })

	Info("hidden")
	Error("shown")
	Sync()

	data, err := os.ReadFile(logFileName(dir, time.Now()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, "thumbkit-2024-01-01.log")
	recent := filepath.Join(dir, "thumbkit-2024-02-20.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	cleanOldLogs(dir, now)

	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)
	assert.FileExists(t, other)
}
