package cliconfig

import "os"

// Environment variable names. Env values override the config file but are
// overridden by explicitly-set flags.
const (
	EnvLogPath       = "CANSIGHT_LOG"
	EnvDatabasePath  = "CANSIGHT_DBC"
	EnvWorkspacePath = "CANSIGHT_WORKSPACE"
	EnvMaxGraphs     = "CANSIGHT_MAX_GRAPHS"
	EnvDarkTheme     = "CANSIGHT_DARK_THEME"
	EnvWatch         = "CANSIGHT_WATCH"
)

// ApplyEnvConfig applies CANSIGHT_* environment variables to the Config.
// Invalid numeric values are ignored rather than fatal.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("log", os.Getenv(EnvLogPath), &cfg.LogPath)
	s.setString("dbc", os.Getenv(EnvDatabasePath), &cfg.DatabasePath)
	s.setString("workspace", os.Getenv(EnvWorkspacePath), &cfg.WorkspacePath)

	_ = s.setIntFromString("max-graphs", os.Getenv(EnvMaxGraphs), &cfg.MaxGraphs)

	s.setBoolFromString("dark-theme", os.Getenv(EnvDarkTheme), &cfg.DarkTheme)
	s.setBoolFromString("watch", os.Getenv(EnvWatch), &cfg.Watch)
}
