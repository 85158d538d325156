// Package cliconfig handles CLI configuration: defaults, TOML config file,
// CANSIGHT_* environment variables and flag overrides, applied in that
// order with explicitly-set flags taking precedence.
package cliconfig

import (
	"fmt"
	"strconv"

	"github.com/cansight/cansight/internal/domain"
	"github.com/cansight/cansight/pkg/log"
)

// DefaultMaxGraphs is the default graph count when none is configured.
const DefaultMaxGraphs = 5

// Config holds the CLI configuration.
type Config struct {
	LogPath       string
	DatabasePath  string
	WorkspacePath string

	MaxGraphs int
	DarkTheme bool
	Watch     bool
	Verbose   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxGraphs: DefaultMaxGraphs,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxGraphs < domain.MinGraphs || c.MaxGraphs > domain.MaxGraphs {
		return fmt.Errorf("max-graphs must be between %d and %d, got %d",
			domain.MinGraphs, domain.MaxGraphs, c.MaxGraphs)
	}
	return nil
}

// Logger returns the logger used while assembling configuration.
func Logger() log.Logger {
	return log.NewZerologAdapter()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
