package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thumbkit/internal/format"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultExtensions, cfg.Scan.Extensions)
	assert.Equal(t, DefaultMaxFilenameUnits, cfg.Parse.MaxFilenameUnits)
	assert.True(t, cfg.Index.Decompress)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scan]
extensions = "jpg|png"
include_folders = true
volume_guid = "{6B29FC40-CA47-1067-B31D-00DD010662DA}"
os_versions = ["win7", "win10"]

[log]
level = "debug"
console = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jpg|png", cfg.Scan.Extensions)
	assert.True(t, cfg.Scan.IncludeFolders)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, DefaultMaxFilenameUnits, cfg.Parse.MaxFilenameUnits, "unset keys keep defaults")

	vs, err := cfg.Versions()
	require.NoError(t, err)
	assert.Equal(t, []format.Version{format.VersionWin7, format.VersionWin10}, vs)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbkit.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
index:
  decompress: false
parse:
  max_filename_units: 260
log:
  dir: /var/log/thumbkit
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Index.Decompress)
	assert.Equal(t, 260, cfg.Parse.MaxFilenameUnits)
	assert.Equal(t, "/var/log/thumbkit", cfg.Log.Dir)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, DefaultExtensions, cfg.Scan.Extensions)
}

func TestEmptyYAML(t *testing.T) {
	cfg, err := Read(strings.NewReader(""), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"filename cap", func(c *Config) { c.Parse.MaxFilenameUnits = -1 }},
		{"versions", func(c *Config) { c.Scan.OSVersions = []string{"win95"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	ini := filepath.Join(dir, "thumbkit.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0o644))
	_, err = Load(ini)
	assert.ErrorContains(t, err, "unsupported config format")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "log.level")
}

func TestWriteRoundTrip(t *testing.T) {
	var b bytes.Buffer
	cfg := Default()
	cfg.Scan.OSVersions = []string{"win8.1"}
	require.NoError(t, Write(&b, cfg))

	back, err := Read(&b, ".toml")
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
