package reloadwatch

import "github.com/cansight/cansight"

// WithReloadWatcher returns a session option that registers a reload
// watcher plugin with the given configuration.
func WithReloadWatcher(cfg Config) cansight.Option {
	return cansight.WithPlugin(New(cfg))
}
