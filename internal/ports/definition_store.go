package ports

import "github.com/cansight/cansight/internal/domain"

// DefinitionStore provides read access to a loaded CAN database.
// Definitions are immutable once loaded.
type DefinitionStore interface {
	// Messages returns all message definitions keyed by arbitration ID.
	Messages() map[uint32]domain.MessageDef

	// Signals returns the signal definitions belonging to the named
	// message, or nil if the message is unknown.
	Signals(message string) []domain.SignalDef

	// Lookup resolves a composite signal key to its definition and parent
	// message. ok is false when the key does not name a loaded signal.
	Lookup(key domain.SignalKey) (domain.SignalDef, domain.MessageDef, bool)

	// Path returns the source file path, for display and workspace
	// persistence.
	Path() string
}
