package pipeline

import (
	"fmt"

	"github.com/cansight/cansight/internal/domain"
)

// decodeSignal extracts a signal's physical value from a frame payload.
// Returns ErrFrameTooShort (wrapped) when the payload cannot contain the
// signal's bit range; the caller skips that frame and continues.
func decodeSignal(def domain.SignalDef, data []byte) (float64, error) {
	raw, err := extractRaw(def, data)
	if err != nil {
		return 0, err
	}
	if def.Signed {
		return float64(signExtend(raw, def.Length))*def.Scale + def.Offset, nil
	}
	return float64(raw)*def.Scale + def.Offset, nil
}

// extractRaw reads the unsigned raw value from the bit range
// [Start, Start+Length) honoring the signal's byte order.
func extractRaw(def domain.SignalDef, data []byte) (uint64, error) {
	if def.Length <= 0 || def.Length > 64 {
		return 0, fmt.Errorf("signal %s: invalid bit length %d", def.Key(), def.Length)
	}
	if def.Order == domain.BigEndian {
		return extractBigEndian(def, data)
	}
	return extractLittleEndian(def, data)
}

// extractLittleEndian reads Intel-ordered bits: position Start contributes
// the least significant bit, counting up through the payload.
func extractLittleEndian(def domain.SignalDef, data []byte) (uint64, error) {
	if def.Start+def.Length > len(data)*8 {
		return 0, fmt.Errorf("signal %s needs bits [%d,%d) in %d-byte payload: %w",
			def.Key(), def.Start, def.Start+def.Length, len(data), domain.ErrFrameTooShort)
	}
	var raw uint64
	for i := 0; i < def.Length; i++ {
		pos := def.Start + i
		bit := (data[pos/8] >> (pos % 8)) & 1
		raw |= uint64(bit) << i
	}
	return raw, nil
}

// extractBigEndian reads Motorola-ordered bits: Start names the most
// significant bit; the walk moves toward bit 0 of the byte, then to bit 7
// of the next byte.
func extractBigEndian(def domain.SignalDef, data []byte) (uint64, error) {
	var raw uint64
	pos := def.Start
	for i := 0; i < def.Length; i++ {
		if pos < 0 || pos/8 >= len(data) {
			return 0, fmt.Errorf("signal %s needs bit %d in %d-byte payload: %w",
				def.Key(), pos, len(data), domain.ErrFrameTooShort)
		}
		bit := (data[pos/8] >> (pos % 8)) & 1
		raw = raw<<1 | uint64(bit)
		if pos%8 == 0 {
			pos += 15
		} else {
			pos--
		}
	}
	return raw, nil
}

// signExtend interprets the low `bits` of raw as two's complement.
func signExtend(raw uint64, bits int) int64 {
	if bits >= 64 {
		return int64(raw)
	}
	if raw&(1<<(bits-1)) != 0 {
		return int64(raw | ^uint64(0)<<bits)
	}
	return int64(raw)
}
