package cansight

import (
	"context"

	"github.com/cansight/cansight/pkg/log"
)

// Reloader is the session surface exposed to plugins: enough to trigger a
// reload (which invalidates the series cache) and to discover the source
// files currently loaded.
type Reloader interface {
	// Reload re-reads the loaded log and database from disk and
	// invalidates all cached series.
	Reload() error

	// SourcePaths returns the loaded log and database file paths.
	// Either may be empty when nothing is loaded.
	SourcePaths() (logPath, dbcPath string)
}

// PluginConfig is passed to plugins during initialization.
type PluginConfig struct {
	// Session gives plugins access to reload and source paths.
	Session Reloader

	// Logger is the session's logger.
	Logger log.Logger
}

// Plugin extends a session with optional behavior.
// Plugins are initialized in registration order when Start is called and
// shut down in reverse order on Stop.
type Plugin interface {
	// Name returns the plugin identifier.
	Name() string

	// Initialize sets up the plugin. The context is canceled on Stop.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}
