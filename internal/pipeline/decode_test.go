package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cansight/cansight/internal/domain"
)

func sigDef(start, length int, order domain.ByteOrder, signed bool, scale, offset float64) domain.SignalDef {
	return domain.SignalDef{
		Message: "Engine",
		Name:    "Speed",
		Start:   start,
		Length:  length,
		Order:   order,
		Signed:  signed,
		Scale:   scale,
		Offset:  offset,
	}
}

func TestDecodeSignalLittleEndian(t *testing.T) {
	tests := []struct {
		name string
		def  domain.SignalDef
		data []byte
		want float64
	}{
		{
			name: "full byte",
			def:  sigDef(0, 8, domain.LittleEndian, false, 1, 0),
			data: []byte{0x64},
			want: 100,
		},
		{
			name: "scale and offset",
			def:  sigDef(0, 8, domain.LittleEndian, false, 0.5, 10),
			data: []byte{0x64},
			want: 60,
		},
		{
			name: "two bytes low first",
			def:  sigDef(8, 16, domain.LittleEndian, false, 1, 0),
			data: []byte{0x00, 0x34, 0x12},
			want: 0x1234,
		},
		{
			name: "unaligned start",
			def:  sigDef(4, 8, domain.LittleEndian, false, 1, 0),
			data: []byte{0xAB, 0xCD},
			want: 0xDA,
		},
		{
			name: "signed negative",
			def:  sigDef(0, 8, domain.LittleEndian, true, 1, 0),
			data: []byte{0xFF},
			want: -1,
		},
		{
			name: "signed twelve bits",
			def:  sigDef(0, 12, domain.LittleEndian, true, 0.1, 0),
			data: []byte{0xFF, 0x0F},
			want: -0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSignal(tt.def, tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDecodeSignalBigEndian(t *testing.T) {
	tests := []struct {
		name string
		def  domain.SignalDef
		data []byte
		want float64
	}{
		{
			name: "full byte",
			def:  sigDef(7, 8, domain.BigEndian, false, 1, 0),
			data: []byte{0xAB},
			want: 0xAB,
		},
		{
			name: "two bytes high first",
			def:  sigDef(7, 16, domain.BigEndian, false, 1, 0),
			data: []byte{0x12, 0x34},
			want: 0x1234,
		},
		{
			name: "signed negative",
			def:  sigDef(7, 8, domain.BigEndian, true, 1, 0),
			data: []byte{0x80},
			want: -128,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSignal(tt.def, tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDecodeSignalShortPayload(t *testing.T) {
	tests := []struct {
		name string
		def  domain.SignalDef
		data []byte
	}{
		{
			name: "little endian overruns payload",
			def:  sigDef(0, 16, domain.LittleEndian, false, 1, 0),
			data: []byte{0x01},
		},
		{
			name: "big endian overruns payload",
			def:  sigDef(7, 16, domain.BigEndian, false, 1, 0),
			data: []byte{0x12},
		},
		{
			name: "empty payload",
			def:  sigDef(0, 8, domain.LittleEndian, false, 1, 0),
			data: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSignal(tt.def, tt.data)
			assert.ErrorIs(t, err, domain.ErrFrameTooShort)
		})
	}
}

func TestDecodeSignalInvalidLength(t *testing.T) {
	_, err := decodeSignal(sigDef(0, 0, domain.LittleEndian, false, 1, 0), []byte{0x01})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrFrameTooShort)

	_, err = decodeSignal(sigDef(0, 65, domain.LittleEndian, false, 1, 0), make([]byte, 9))
	require.Error(t, err)
}
