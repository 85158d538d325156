package domain

import (
	"fmt"
	"strings"
)

// RawFrame represents a single captured CAN frame.
// Timestamps are seconds relative to the first frame in the log; stores
// normalize on load so the first frame sits at time zero.
type RawFrame struct {
	// ID is the arbitration identifier.
	ID uint32

	// Extended reports whether ID is a 29-bit extended identifier.
	Extended bool

	// Timestamp is seconds since the start of the log.
	Timestamp float64

	// Data is the payload. Read-only after load.
	Data []byte
}

// DLC returns the payload length in bytes.
func (f RawFrame) DLC() int { return len(f.Data) }

// IDHex returns the identifier formatted the way capture tools print it:
// three hex digits for standard IDs, eight for extended ones.
func (f RawFrame) IDHex() string {
	if f.Extended {
		return fmt.Sprintf("0x%08X", f.ID)
	}
	return fmt.Sprintf("0x%03X", f.ID)
}

// DataHex returns the payload as space-separated uppercase hex bytes.
func (f RawFrame) DataHex() string {
	parts := make([]string, len(f.Data))
	for i, b := range f.Data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
