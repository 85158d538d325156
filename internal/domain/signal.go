package domain

// ByteOrder describes how a signal's bits are laid out in the payload.
type ByteOrder int

const (
	// LittleEndian (Intel) counts bit positions up from the start bit.
	LittleEndian ByteOrder = iota

	// BigEndian (Motorola) walks down within a byte, then into the next.
	BigEndian
)

// String returns the conventional name for the byte order.
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big_endian"
	}
	return "little_endian"
}

// MessageDef describes a message layout from the loaded database.
// Immutable once the database is loaded.
type MessageDef struct {
	// ID is the arbitration identifier, unique per database.
	ID uint32

	// Extended reports whether ID is a 29-bit extended identifier.
	Extended bool

	// Name is the message name, unique per database.
	Name string

	// Length is the expected payload length in bytes.
	Length int
}

// SignalDef describes one signal's bit encoding within its parent message.
// Immutable once the database is loaded.
type SignalDef struct {
	// Message is the parent message name.
	Message string

	// Name is the signal name, unique within the parent message.
	Name string

	// Start is the start bit of the raw value within the payload.
	Start int

	// Length is the raw value width in bits.
	Length int

	// Order is the bit layout of the raw value.
	Order ByteOrder

	// Signed reports whether the raw value is two's complement.
	Signed bool

	// Scale and Offset map raw to physical: value = raw*Scale + Offset.
	Scale  float64
	Offset float64

	// Min and Max are the declared physical bounds. Decoded values are
	// passed through unclamped; the bounds are informational.
	Min float64
	Max float64

	// Unit is the physical unit string, possibly empty.
	Unit string
}

// Key returns the composite key naming this signal across the database.
func (s SignalDef) Key() SignalKey {
	return SignalKey{Message: s.Message, Signal: s.Name}
}

// SignalKey uniquely names a signal as (message name, signal name).
type SignalKey struct {
	Message string `json:"message"`
	Signal  string `json:"signal"`
}

// String renders the key in the Message.Signal form used in exports and
// on the command line.
func (k SignalKey) String() string {
	if k.Message == "" {
		return k.Signal
	}
	return k.Message + "." + k.Signal
}
