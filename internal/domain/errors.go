package domain

import "errors"

var (
	// ErrUnknownSignal indicates a signal key that does not resolve to a
	// definition in the loaded database, or is not present in the log.
	ErrUnknownSignal = errors.New("cansight: unknown signal")

	// ErrLimitExceeded indicates the selection plan is already at the
	// configured graph count.
	ErrLimitExceeded = errors.New("cansight: selection limit exceeded")

	// ErrAlreadySelected indicates the signal key is already in the plan.
	ErrAlreadySelected = errors.New("cansight: signal already selected")

	// ErrNoCursors indicates fewer than two cursors are placed; statistics
	// cannot be computed.
	ErrNoCursors = errors.New("cansight: two cursors required")

	// ErrEmptyRange indicates the cursor interval encloses no samples.
	ErrEmptyRange = errors.New("cansight: no samples in cursor range")

	// ErrMissingCursors indicates a partial export was requested without a
	// two-cursor interval.
	ErrMissingCursors = errors.New("cansight: export requires two cursors")

	// ErrFrameTooShort indicates a frame payload shorter than a signal's
	// bit range. The frame is skipped; resolution continues.
	ErrFrameTooShort = errors.New("cansight: frame payload too short")

	// ErrNoLogLoaded indicates an operation that needs a loaded log.
	ErrNoLogLoaded = errors.New("cansight: no log loaded")

	// ErrNoDatabaseLoaded indicates an operation that needs a loaded
	// database.
	ErrNoDatabaseLoaded = errors.New("cansight: no database loaded")
)
