package cansight

import (
	"github.com/cansight/cansight/internal/ports"
	"github.com/cansight/cansight/pkg/log"
)

// Logger is the structured logging interface from pkg/log.
type Logger = log.Logger

// LogOpener opens a log file into a LogStore.
type LogOpener func(path string, logger log.Logger) (ports.LogStore, error)

// DatabaseOpener opens a database file into a DefinitionStore.
type DatabaseOpener func(path string, logger log.Logger) (ports.DefinitionStore, error)

// Option configures optional behavior of a Session.
type Option func(*options)

// options holds the optional configuration for a Session.
type options struct {
	logger     log.Logger
	plugins    []Plugin
	openLog    LogOpener
	openDBC    DatabaseOpener
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPlugin registers a plugin to be initialized when the session starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithLogOpener replaces the default candump-text log reader, for example
// with a store backed by a BLF reader.
func WithLogOpener(open LogOpener) Option {
	return func(o *options) {
		o.openLog = open
	}
}

// WithDatabaseOpener replaces the default DBC-compiler-backed definition
// store.
func WithDatabaseOpener(open DatabaseOpener) Option {
	return func(o *options) {
		o.openDBC = open
	}
}
