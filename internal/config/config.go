// Package config loads thumbkit settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/thumbkit/internal/format"
)

// DefaultExtensions is the live-hash allow-list used when none is set.
const DefaultExtensions = "jpg|jpeg|png|bmp|gif|tif|tiff"

// DefaultMaxFilenameUnits caps entry filenames, in UTF-16 code units.
const DefaultMaxFilenameUnits = 32767

// Config is the full set of settings.
type Config struct {
	Scan  ScanConfig  `toml:"scan" yaml:"scan"`
	Index IndexConfig `toml:"index" yaml:"index"`
	Log   LogConfig   `toml:"log" yaml:"log"`
	Parse ParseConfig `toml:"parse" yaml:"parse"`
}

// ScanConfig drives live hashing.
type ScanConfig struct {
	Extensions     string   `toml:"extensions" yaml:"extensions"` // pipe-delimited, e.g. "jpg|png"
	IncludeFolders bool     `toml:"include_folders" yaml:"include_folders"`
	VolumeGUID     string   `toml:"volume_guid" yaml:"volume_guid"`
	OSVersions     []string `toml:"os_versions" yaml:"os_versions"` // e.g. ["win7", "win10"]; empty = versions in the store
}

// IndexConfig controls index database access.
type IndexConfig struct {
	Decompress bool `toml:"decompress" yaml:"decompress"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level   string `toml:"level" yaml:"level"` // debug, info, warn, error
	Dir     string `toml:"dir" yaml:"dir"`
	Console bool   `toml:"console" yaml:"console"`
	JSON    bool   `toml:"json" yaml:"json"`
}

// ParseConfig tunes the record parser.
type ParseConfig struct {
	MaxFilenameUnits int `toml:"max_filename_units" yaml:"max_filename_units"`
}

// Default returns working settings.
func Default() *Config {
	return &Config{
		Scan:  ScanConfig{Extensions: DefaultExtensions},
		Index: IndexConfig{Decompress: true},
		Log:   LogConfig{Level: "info"},
		Parse: ParseConfig{MaxFilenameUnits: DefaultMaxFilenameUnits},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes settings from r over the defaults. ext selects the format.
func Read(r io.Reader, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Parse.MaxFilenameUnits < 0 {
		return fmt.Errorf("parse.max_filename_units: must not be negative, got %d", c.Parse.MaxFilenameUnits)
	}
	if _, err := c.Versions(); err != nil {
		return fmt.Errorf("scan.os_versions: %w", err)
	}
	return nil
}

// Versions parses Scan.OSVersions.
func (c *Config) Versions() ([]format.Version, error) {
	out := make([]format.Version, 0, len(c.Scan.OSVersions))
	for _, s := range c.Scan.OSVersions {
		v, err := format.ParseVersion(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
