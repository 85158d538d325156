// Package cansight provides an embeddable session for decoding CAN bus log
// signals against a CAN database and serving them as time series:
// selection bookkeeping, cursor statistics, CSV/JSON export and workspace
// persistence.
//
// Example usage:
//
//	sess, err := cansight.New(cansight.DefaultConfig(),
//	    cansight.WithLogger(log.NewZerologAdapter()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.OpenLog("drive.log"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.OpenDatabase("vehicle.dbc"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.Select(cansight.SignalKey{Message: "Engine", Signal: "Speed"}); err != nil {
//	    log.Fatal(err)
//	}
//	series, err := sess.Resolve(cansight.SignalKey{Message: "Engine", Signal: "Speed"})
package cansight

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cansight/cansight/internal/adapters/canlog"
	"github.com/cansight/cansight/internal/adapters/dbcstore"
	"github.com/cansight/cansight/internal/domain"
	"github.com/cansight/cansight/internal/export"
	"github.com/cansight/cansight/internal/pipeline"
	"github.com/cansight/cansight/internal/ports"
	"github.com/cansight/cansight/internal/workspace"
	"github.com/cansight/cansight/pkg/log"
)

// Re-export the domain types consumers work with.
type (
	// SignalKey uniquely names a signal as (message name, signal name).
	SignalKey = domain.SignalKey

	// Series is a resolved per-signal time series.
	Series = domain.Series

	// Sample is one decoded point of a series.
	Sample = domain.Sample

	// MessageDef describes a message layout from the loaded database.
	MessageDef = domain.MessageDef

	// SignalDef describes one signal's bit encoding.
	SignalDef = domain.SignalDef

	// RawFrame is a single captured CAN frame.
	RawFrame = domain.RawFrame

	// Cursors holds zero, one or two time markers.
	Cursors = domain.Cursors

	// Interval is a closed time range.
	Interval = domain.Interval

	// RangeStats aggregates samples enclosed by a two-cursor interval.
	RangeStats = pipeline.RangeStats
)

// Sentinel errors surfaced by session operations.
var (
	ErrUnknownSignal    = domain.ErrUnknownSignal
	ErrLimitExceeded    = domain.ErrLimitExceeded
	ErrAlreadySelected  = domain.ErrAlreadySelected
	ErrNoCursors        = domain.ErrNoCursors
	ErrEmptyRange       = domain.ErrEmptyRange
	ErrMissingCursors   = domain.ErrMissingCursors
	ErrNoLogLoaded      = domain.ErrNoLogLoaded
	ErrNoDatabaseLoaded = domain.ErrNoDatabaseLoaded
)

// Config holds the configuration for a session.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// MaxGraphs bounds the selection plan, between 1 and 10.
	MaxGraphs int

	// DarkTheme is carried into saved workspaces; the session itself does
	// not interpret it.
	DarkTheme bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{MaxGraphs: 5}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxGraphs < domain.MinGraphs || c.MaxGraphs > domain.MaxGraphs {
		return fmt.Errorf("max graphs must be between %d and %d, got %d",
			domain.MinGraphs, domain.MaxGraphs, c.MaxGraphs)
	}
	return nil
}

// Info summarizes the loaded sources.
type Info struct {
	LogPath      string
	FrameCount   int
	Duration     float64
	UniqueIDs    int
	DatabasePath string
	MessageCount int
	SignalCount  int
	MatchedCount int
}

// Session owns the resolution pipeline, the selection plan and the cursor
// state for one pair of loaded files.
//
// The pipeline itself is synchronous; the session serializes access with a
// mutex only because plugins (such as the reload watcher) may call Reload
// from their own goroutine.
type Session struct {
	mu sync.RWMutex

	cfg    Config
	opts   options
	logger log.Logger

	logStore ports.LogStore
	defStore ports.DefinitionStore
	resolver *pipeline.Resolver
	plan     *domain.SelectionPlan
	cursors  domain.Cursors
	view     *workspace.ViewRange

	started bool
	cancel  context.CancelFunc
}

// New creates a session with the given configuration.
// Nothing is loaded yet; call OpenLog and OpenDatabase next.
func New(cfg Config, opts ...Option) (*Session, error) {
	if cfg.MaxGraphs == 0 {
		cfg.MaxGraphs = DefaultConfig().MaxGraphs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		cfg:    cfg,
		opts:   o,
		logger: o.logger,
		plan:   domain.NewSelectionPlan(cfg.MaxGraphs),
	}
	s.resolver = pipeline.New(nil, nil, o.logger)
	return s, nil
}

// Start initializes registered plugins. Safe to skip when no plugins are
// registered.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("cansight: session already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	cfg := PluginConfig{Session: s, Logger: s.logger}
	for _, p := range s.opts.plugins {
		if err := p.Initialize(runCtx, cfg); err != nil {
			cancel()
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		s.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}
	s.started = true
	return nil
}

// Stop shuts down plugins in reverse registration order.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	if s.cancel != nil {
		s.cancel()
	}
	plugins := s.opts.plugins
	s.mu.Unlock()

	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		}
	}
	return nil
}

// OpenLog loads the log file at path and invalidates all cached series.
func (s *Session) OpenLog(path string) error {
	open := s.opts.openLog
	if open == nil {
		open = func(p string, l log.Logger) (ports.LogStore, error) {
			return canlog.Open(p, l)
		}
	}
	store, err := open(path, s.logger)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logStore = store
	s.resolver.SetStores(s.logStore, s.defStore)
	s.pruneSelectionLocked()
	return nil
}

// OpenDatabase loads the database file at path and invalidates all cached
// series.
func (s *Session) OpenDatabase(path string) error {
	open := s.opts.openDBC
	if open == nil {
		open = func(p string, l log.Logger) (ports.DefinitionStore, error) {
			return dbcstore.Open(p, l)
		}
	}
	store, err := open(path, s.logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.defStore = store
	s.resolver.SetStores(s.logStore, s.defStore)
	s.pruneSelectionLocked()
	return nil
}

// Reload re-reads both loaded files from disk. The cache is invalidated
// before any new resolution can happen; selected keys that no longer
// resolve are dropped from the plan.
func (s *Session) Reload() error {
	logPath, dbcPath := s.SourcePaths()
	if logPath != "" {
		if err := s.OpenLog(logPath); err != nil {
			return err
		}
	}
	if dbcPath != "" {
		if err := s.OpenDatabase(dbcPath); err != nil {
			return err
		}
	}
	s.logger.Info("sources reloaded",
		log.String("log", logPath),
		log.String("dbc", dbcPath))
	return nil
}

// pruneSelectionLocked drops selected keys that are no longer available
// after a reload. Caller holds the write lock.
func (s *Session) pruneSelectionLocked() {
	if s.logStore == nil || s.defStore == nil {
		return
	}
	for _, key := range s.plan.Keys() {
		if !s.resolver.IsAvailable(key) {
			s.plan.Remove(key)
			s.logger.Warn("selected signal no longer available",
				log.String("signal", key.String()))
		}
	}
}

// SourcePaths returns the loaded log and database file paths.
func (s *Session) SourcePaths() (logPath, dbcPath string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logStore != nil {
		logPath = s.logStore.Path()
	}
	if s.defStore != nil {
		dbcPath = s.defStore.Path()
	}
	return logPath, dbcPath
}

// Available returns the message definitions present in both the database
// and the log, sorted by identifier.
func (s *Session) Available() []MessageDef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.resolver.Available()
	out := make([]MessageDef, 0, len(matched))
	for _, def := range matched {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Messages returns every message definition in the loaded database, sorted
// by identifier, regardless of log availability.
func (s *Session) Messages() []MessageDef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.defStore == nil {
		return nil
	}
	byID := s.defStore.Messages()
	out := make([]MessageDef, 0, len(byID))
	for _, def := range byID {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SignalsOf returns the signal definitions of the named message.
func (s *Session) SignalsOf(message string) []SignalDef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defStore == nil {
		return nil
	}
	return s.defStore.Signals(message)
}

// SignalInfo returns the definition behind a signal key.
func (s *Session) SignalInfo(key SignalKey) (SignalDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defStore == nil {
		return SignalDef{}, ErrNoDatabaseLoaded
	}
	def, _, ok := s.defStore.Lookup(key)
	if !ok {
		return SignalDef{}, fmt.Errorf("%s: %w", key, ErrUnknownSignal)
	}
	return def, nil
}

// Select adds key to the selection plan. The key must name a signal whose
// parent message appears in both the database and the log; otherwise
// ErrUnknownSignal is returned and the plan is left unchanged.
func (s *Session) Select(key SignalKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolver.IsAvailable(key) {
		return fmt.Errorf("%s: %w", key, ErrUnknownSignal)
	}
	return s.plan.Add(key)
}

// Deselect removes key from the selection plan.
func (s *Session) Deselect(key SignalKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Remove(key)
}

// ClearSelection removes all selected keys.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan.Clear()
}

// Selected returns the selected keys in insertion order. The position of a
// key determines its graph slot and color index.
func (s *Session) Selected() []SignalKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Keys()
}

// ColorOf returns the palette color assigned to a selected key, or "" when
// the key is not selected.
func (s *Session) ColorOf(key SignalKey) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.plan.Index(key)
	if idx < 0 {
		return ""
	}
	return domain.GraphColor(idx)
}

// Resolve returns the decoded series for key, from cache when possible.
// The returned series is shared and must be treated as read-only.
func (s *Session) Resolve(key SignalKey) (*Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Resolve(key)
}

// SetCursors places up to two time markers.
func (s *Session) SetCursors(positions ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = domain.NewCursors(positions...)
}

// Cursors returns the current cursor set.
func (s *Session) Cursors() Cursors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors
}

// SetViewRange stores the horizontal view bounds for workspace persistence.
func (s *Session) SetViewRange(xMin, xMax float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = &workspace.ViewRange{XMin: xMin, XMax: xMax}
}

// Stats computes cursor statistics for one signal key.
func (s *Session) Stats(key SignalKey) (RangeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series, err := s.resolver.Resolve(key)
	if err != nil {
		return RangeStats{}, err
	}
	return pipeline.ComputeRange(series, s.cursors)
}

// StatsAll computes cursor statistics for every selected key. Signals with
// no samples inside the interval are omitted. Returns ErrNoCursors when
// fewer than two cursors are placed.
func (s *Session) StatsAll() (map[SignalKey]RangeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.cursors.Interval(); err != nil {
		return nil, err
	}

	out := make(map[SignalKey]RangeStats)
	for _, key := range s.plan.Keys() {
		series, err := s.resolver.Resolve(key)
		if err != nil {
			return nil, err
		}
		stats, err := pipeline.ComputeRange(series, s.cursors)
		if err != nil {
			// EmptyRange for one signal does not fail the others.
			continue
		}
		out[key] = stats
	}
	return out, nil
}

// columnsLocked resolves the selected keys into export columns.
// Caller holds the lock.
func (s *Session) columnsLocked() ([]export.Column, error) {
	keys := s.plan.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("cansight: no signals selected")
	}
	cols := make([]export.Column, 0, len(keys))
	for _, key := range keys {
		series, err := s.resolver.Resolve(key)
		if err != nil {
			return nil, err
		}
		cols = append(cols, export.Column{
			Label:  key.String(),
			Unit:   series.Unit,
			Series: series,
		})
	}
	return cols, nil
}

// ExportCSV writes the selected signals to a CSV file. When interval is
// nil the whole log range is exported; when two cursors are placed pass
// their interval to clip the output.
func (s *Session) ExportCSV(path string, interval *Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := s.columnsLocked()
	if err != nil {
		return err
	}
	return export.WriteCSVFile(path, cols, interval)
}

// ExportRange writes the selected signals inside the two-cursor interval
// to a partial JSON document. Returns ErrMissingCursors (and creates no
// file) when fewer than two cursors are placed.
func (s *Session) ExportRange(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := s.columnsLocked()
	if err != nil {
		return err
	}
	var logPath, dbcPath string
	if s.logStore != nil {
		logPath = s.logStore.Path()
	}
	if s.defStore != nil {
		dbcPath = s.defStore.Path()
	}
	return export.WritePartialFile(path, cols, s.cursors, logPath, dbcPath)
}

// RawFrames returns up to limit frames from the loaded log without any
// decoding. limit <= 0 returns all frames.
func (s *Session) RawFrames(limit int) ([]RawFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.logStore == nil {
		return nil, ErrNoLogLoaded
	}
	frames := s.logStore.Frames()
	if limit > 0 && limit < len(frames) {
		frames = frames[:limit]
	}
	out := make([]RawFrame, len(frames))
	copy(out, frames)
	return out, nil
}

// Info summarizes the loaded sources and their intersection.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info Info
	if s.logStore != nil {
		info.LogPath = s.logStore.Path()
		frames := s.logStore.Frames()
		info.FrameCount = len(frames)
		if len(frames) > 0 {
			info.Duration = frames[len(frames)-1].Timestamp
		}
		info.UniqueIDs = len(s.logStore.Identifiers())
	}
	if s.defStore != nil {
		info.DatabasePath = s.defStore.Path()
		msgs := s.defStore.Messages()
		info.MessageCount = len(msgs)
		for _, def := range msgs {
			info.SignalCount += len(s.defStore.Signals(def.Name))
		}
	}
	info.MatchedCount = len(s.resolver.Available())
	return info
}

// SaveWorkspace persists the session state as a workspace document.
func (s *Session) SaveWorkspace(path string) error {
	s.mu.RLock()
	logPath, dbcPath := "", ""
	if s.logStore != nil {
		logPath = s.logStore.Path()
	}
	if s.defStore != nil {
		dbcPath = s.defStore.Path()
	}
	doc := &workspace.Document{
		LogPath:      logPath,
		DatabasePath: dbcPath,
		Selected:     s.plan.Keys(),
		GraphCount:   s.plan.Limit(),
		DarkTheme:    s.cfg.DarkTheme,
		Cursors:      s.cursors.Positions(),
		View:         s.view,
	}
	s.mu.RUnlock()

	return workspace.Save(path, doc)
}

// LoadWorkspace restores a saved workspace: opens the recorded files,
// restores graph count, theme, cursors and view range, and re-selects the
// saved keys. Keys that no longer resolve are skipped with a warning.
func (s *Session) LoadWorkspace(path string) error {
	doc, err := workspace.Load(path)
	if err != nil {
		return err
	}

	if doc.LogPath != "" {
		if err := s.OpenLog(doc.LogPath); err != nil {
			return err
		}
	}
	if doc.DatabasePath != "" {
		if err := s.OpenDatabase(doc.DatabasePath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.DarkTheme = doc.DarkTheme
	s.plan = domain.NewSelectionPlan(doc.GraphCount)
	for _, key := range doc.Selected {
		if !s.resolver.IsAvailable(key) {
			s.logger.Warn("workspace signal not available",
				log.String("signal", key.String()))
			continue
		}
		if err := s.plan.Add(key); err != nil {
			s.logger.Warn("workspace signal rejected",
				log.String("signal", key.String()),
				log.Err(err))
			continue
		}
		// Warm the cache so the rendering layer's first resolve is a hit.
		if _, err := s.resolver.Resolve(key); err != nil {
			s.logger.Warn("workspace signal failed to resolve",
				log.String("signal", key.String()),
				log.Err(err))
		}
	}
	s.cursors = domain.NewCursors(doc.Cursors...)
	s.view = doc.View
	return nil
}
