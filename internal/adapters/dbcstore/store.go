// Package dbcstore implements ports.DefinitionStore on top of the
// go.einride.tech/can DBC compiler. Grammar parsing is delegated entirely
// to that library; this package only maps its descriptors onto the domain
// types used by the resolution pipeline.
package dbcstore

import (
	"fmt"
	"os"

	"go.einride.tech/can/pkg/descriptor"
	"go.einride.tech/can/pkg/generate"

	"github.com/cansight/cansight/internal/domain"
	"github.com/cansight/cansight/pkg/log"
)

// Store holds the definitions of one loaded DBC file.
// Immutable after Open returns.
type Store struct {
	path     string
	byID     map[uint32]domain.MessageDef
	byName   map[string]domain.MessageDef
	signals  map[string][]domain.SignalDef
	sigCount int
}

// Open reads and compiles the DBC file at path.
// Compiler warnings are logged, not fatal.
func Open(path string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	result, err := generate.Compile(path, data)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	for _, warning := range result.Warnings {
		logger.Warn("dbc compile warning",
			log.String("path", path),
			log.Err(warning),
		)
	}

	s := &Store{
		path:    path,
		byID:    make(map[uint32]domain.MessageDef),
		byName:  make(map[string]domain.MessageDef),
		signals: make(map[string][]domain.SignalDef),
	}
	for _, msg := range result.Database.Messages {
		def := domain.MessageDef{
			ID:       msg.ID,
			Extended: msg.IsExtended,
			Name:     msg.Name,
			Length:   int(msg.Length),
		}
		s.byID[def.ID] = def
		s.byName[def.Name] = def
		for _, sig := range msg.Signals {
			s.signals[def.Name] = append(s.signals[def.Name], convertSignal(def.Name, sig))
			s.sigCount++
		}
	}

	logger.Info("database loaded",
		log.String("path", path),
		log.Int("messages", len(s.byID)),
		log.Int("signals", s.sigCount),
	)
	return s, nil
}

// convertSignal maps a compiled descriptor onto the domain signal type.
func convertSignal(message string, sig *descriptor.Signal) domain.SignalDef {
	order := domain.LittleEndian
	if sig.IsBigEndian {
		order = domain.BigEndian
	}
	return domain.SignalDef{
		Message: message,
		Name:    sig.Name,
		Start:   int(sig.Start),
		Length:  int(sig.Length),
		Order:   order,
		Signed:  sig.IsSigned,
		Scale:   sig.Scale,
		Offset:  sig.Offset,
		Min:     sig.Min,
		Max:     sig.Max,
		Unit:    sig.Unit,
	}
}

// Messages returns all message definitions keyed by arbitration ID.
func (s *Store) Messages() map[uint32]domain.MessageDef { return s.byID }

// MessageByName returns the named message definition.
func (s *Store) MessageByName(name string) (domain.MessageDef, bool) {
	def, ok := s.byName[name]
	return def, ok
}

// Signals returns the signal definitions of the named message.
func (s *Store) Signals(message string) []domain.SignalDef {
	return s.signals[message]
}

// Lookup resolves a composite signal key to its definition and parent
// message.
func (s *Store) Lookup(key domain.SignalKey) (domain.SignalDef, domain.MessageDef, bool) {
	msg, ok := s.byName[key.Message]
	if !ok {
		return domain.SignalDef{}, domain.MessageDef{}, false
	}
	for _, sig := range s.signals[key.Message] {
		if sig.Name == key.Signal {
			return sig, msg, true
		}
	}
	return domain.SignalDef{}, domain.MessageDef{}, false
}

// Path returns the source file path.
func (s *Store) Path() string { return s.path }

// SignalCount returns the total number of signal definitions.
func (s *Store) SignalCount() int { return s.sigCount }
