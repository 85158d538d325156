// Package reloadwatch provides source file monitoring for cansight.
// When enabled, it watches the loaded log and database files and reloads
// the session when either changes, so cached series never go stale against
// the files on disk.
package reloadwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cansight/cansight"
	"github.com/cansight/cansight/pkg/log"
)

// Plugin implements source file watching.
// It monitors the directories holding the loaded log and database files
// and triggers a session reload when those files are written or replaced.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	session  cansight.Reloader
	logger   log.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the reload watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// reloading, so a burst of writes causes one reload.
	// Default: 250 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 250 * time.Millisecond}
}

// New creates a new reload watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 250 * time.Millisecond
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "reloadwatch"
}

// Initialize sets up the plugin and starts the watch loop.
func (p *Plugin) Initialize(ctx context.Context, cfg cansight.PluginConfig) error {
	p.mu.Lock()
	p.session = cfg.Session
	p.logger = cfg.Logger
	p.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("reload watcher initialized")

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches the source files for changes.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("reload watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	watched := p.watchTargets()
	if len(watched) == 0 {
		p.logger.Warn("reload watcher: no sources loaded, nothing to watch")
		return
	}
	// Watch the parent directories; editors and capture tools commonly
	// replace files by rename, which drops watches on the file itself.
	dirs := make(map[string]struct{})
	for _, path := range watched {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			p.logger.Error("reload watcher: failed to watch directory",
				log.String("dir", dir),
				log.Err(err))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.isSource(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload(p.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("reload watcher: watcher error", log.Err(err))
		}
	}
}

// watchTargets returns the currently loaded source paths.
func (p *Plugin) watchTargets() []string {
	logPath, dbcPath := p.session.SourcePaths()
	var out []string
	if logPath != "" {
		out = append(out, logPath)
	}
	if dbcPath != "" {
		out = append(out, dbcPath)
	}
	return out
}

// isSource reports whether name refers to one of the loaded files.
func (p *Plugin) isSource(name string) bool {
	for _, path := range p.watchTargets() {
		if filepath.Clean(name) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

func (p *Plugin) debounceReload(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, func() {
		if err := p.session.Reload(); err != nil {
			p.logger.Error("reload watcher: reload failed", log.Err(err))
			return
		}
		p.logger.Info("reload watcher: sources reloaded")
	})
}

// Ensure Plugin implements cansight.Plugin.
var _ cansight.Plugin = (*Plugin)(nil)
