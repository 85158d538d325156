// Package pipeline implements the signal resolution and caching pipeline:
// it matches log identifiers against database definitions, decodes raw
// payload bytes into physical time series and caches the result per signal
// key until the next reload.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/cansight/cansight/internal/domain"
	"github.com/cansight/cansight/internal/ports"
	"github.com/cansight/cansight/pkg/log"
)

// Resolver decodes signals from a loaded log using a loaded database and
// caches resolved series by signal key.
//
// The resolver is the only writer of its cache. It is not safe for
// concurrent use; callers running resolution from multiple goroutines must
// serialize access themselves.
type Resolver struct {
	log    ports.LogStore
	defs   ports.DefinitionStore
	logger log.Logger
	cache  map[domain.SignalKey]*domain.Series
}

// New creates a resolver over the given stores. Either store may be nil
// until the corresponding file is loaded; Resolve reports that as an error.
func New(logStore ports.LogStore, defs ports.DefinitionStore, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Resolver{
		log:    logStore,
		defs:   defs,
		logger: logger,
		cache:  make(map[domain.SignalKey]*domain.Series),
	}
}

// SetStores swaps the underlying stores after a reload and invalidates the
// cache. Must be called for every successful reload before any Resolve.
func (r *Resolver) SetStores(logStore ports.LogStore, defs ports.DefinitionStore) {
	r.log = logStore
	r.defs = defs
	r.Invalidate()
}

// Invalidate discards every cached series. Stale series must never survive
// a log or database reload.
func (r *Resolver) Invalidate() {
	r.cache = make(map[domain.SignalKey]*domain.Series)
}

// CachedKeys returns the keys currently held in the cache, for diagnostics.
func (r *Resolver) CachedKeys() []domain.SignalKey {
	keys := make([]domain.SignalKey, 0, len(r.cache))
	for k := range r.cache {
		keys = append(keys, k)
	}
	return keys
}

// MatchAvailable returns the subset of definitions whose identifier appears
// in the log. Pure function; used to drive availability display, decodes
// nothing.
func MatchAvailable(logIDs map[uint32]struct{}, defs map[uint32]domain.MessageDef) map[uint32]domain.MessageDef {
	matched := make(map[uint32]domain.MessageDef)
	for id, def := range defs {
		if _, ok := logIDs[id]; ok {
			matched[id] = def
		}
	}
	return matched
}

// Available returns the message definitions present in both the loaded
// database and the loaded log.
func (r *Resolver) Available() map[uint32]domain.MessageDef {
	if r.log == nil || r.defs == nil {
		return nil
	}
	return MatchAvailable(r.log.Identifiers(), r.defs.Messages())
}

// IsAvailable reports whether key names a signal whose parent message
// appears in both the database and the log.
func (r *Resolver) IsAvailable(key domain.SignalKey) bool {
	if r.log == nil || r.defs == nil {
		return false
	}
	_, msg, ok := r.defs.Lookup(key)
	if !ok {
		return false
	}
	_, inLog := r.log.Identifiers()[msg.ID]
	return inLog
}

// Resolve returns the decoded time series for key. Cached series are
// returned as-is; a miss scans all frames with the parent message's
// identifier, decodes each and caches the result. Frames whose payload is
// too short for the signal's bit range are skipped and counted, not fatal.
//
// The returned series is shared with the cache and must be treated as
// read-only.
func (r *Resolver) Resolve(key domain.SignalKey) (*domain.Series, error) {
	if s, ok := r.cache[key]; ok {
		return s, nil
	}
	if r.log == nil {
		return nil, domain.ErrNoLogLoaded
	}
	if r.defs == nil {
		return nil, domain.ErrNoDatabaseLoaded
	}

	def, msg, ok := r.defs.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrUnknownSignal)
	}

	series := &domain.Series{Key: key, Unit: def.Unit}
	for _, frame := range r.log.Frames() {
		if frame.ID != msg.ID {
			continue
		}
		value, err := decodeSignal(def, frame.Data)
		if err != nil {
			if errors.Is(err, domain.ErrFrameTooShort) {
				series.Skipped++
				r.logger.Debug("skipping short frame",
					log.String("signal", key.String()),
					log.Uint32("id", frame.ID),
					log.Float64("time", frame.Timestamp),
					log.Int("dlc", frame.DLC()),
				)
				continue
			}
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		series.Samples = append(series.Samples, domain.Sample{
			Time:  frame.Timestamp,
			Value: value,
		})
	}

	if series.Skipped > 0 {
		r.logger.Warn("frames skipped during resolution",
			log.String("signal", key.String()),
			log.Int("skipped", series.Skipped),
			log.Int("decoded", series.Len()),
		)
	}

	r.cache[key] = series
	return series, nil
}
