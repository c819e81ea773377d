package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ExportConfig controls Standard MIDI File export
type ExportConfig struct {
	Resolution uint16  `json:"resolution,omitempty"` // file ticks per quarter
	Clocks     uint16  `json:"clocks,omitempty"`     // pattern ticks per quarter
	Tempo      float64 `json:"tempo,omitempty"`
	Repeats    int     `json:"repeats,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	PalettePath string `json:"palettePath,omitempty"` // GIMP .gpl file, built-in palette if empty
	LastOffset  int32  `json:"lastOffset,omitempty"`
	StableSort  bool   `json:"stableSort,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	PatternFile string       `json:"patternFile,omitempty"`
	DefaultPort uint8        `json:"defaultPort,omitempty"` // payload port for notes without one
	Debug       bool         `json:"debug,omitempty"`
	Export      ExportConfig `json:"export,omitempty"`
	UI          UIConfig     `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PatternFile: "pattern.yaml",
		Export: ExportConfig{
			Resolution: 96,
			Clocks:     24,
			Tempo:      120,
			Repeats:    1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pattern"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file gives defaults; fields
// absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
