package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field types.
type FileConfig struct {
	LogPath       string `toml:"log_path"`
	DatabasePath  string `toml:"dbc_path"`
	WorkspacePath string `toml:"workspace_path"`
	MaxGraphs     int    `toml:"max_graphs"`
	DarkTheme     *bool  `toml:"dark_theme"`
	Watch         *bool  `toml:"watch"`
	Verbose       *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.cansight/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".cansight", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log", fc.LogPath, &cfg.LogPath)
	s.setString("dbc", fc.DatabasePath, &cfg.DatabasePath)
	s.setString("workspace", fc.WorkspacePath, &cfg.WorkspacePath)

	s.setInt("max-graphs", fc.MaxGraphs, &cfg.MaxGraphs)

	s.setBool("dark-theme", fc.DarkTheme, &cfg.DarkTheme)
	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
