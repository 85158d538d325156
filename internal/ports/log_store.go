package ports

import "github.com/cansight/cansight/internal/domain"

// LogStore provides read access to a loaded CAN log.
// Frames are ordered by timestamp, normalized so the first frame is at
// time zero. The store's data is read-only after load.
type LogStore interface {
	// Frames returns all frames in log order. The returned slice must not
	// be mutated by the caller.
	Frames() []domain.RawFrame

	// Identifiers returns the set of distinct arbitration IDs in the log.
	Identifiers() map[uint32]struct{}

	// Path returns the source file path, for display and workspace
	// persistence.
	Path() string
}
