package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cansight/cansight/internal/domain"
)

// fakeLog is an in-memory ports.LogStore.
type fakeLog struct {
	frames []domain.RawFrame
}

func (f *fakeLog) Frames() []domain.RawFrame { return f.frames }

func (f *fakeLog) Identifiers() map[uint32]struct{} {
	ids := make(map[uint32]struct{})
	for _, fr := range f.frames {
		ids[fr.ID] = struct{}{}
	}
	return ids
}

func (f *fakeLog) Path() string { return "fake.log" }

// fakeDefs is an in-memory ports.DefinitionStore.
type fakeDefs struct {
	messages map[uint32]domain.MessageDef
	signals  map[domain.SignalKey]domain.SignalDef
}

func (f *fakeDefs) Messages() map[uint32]domain.MessageDef { return f.messages }

func (f *fakeDefs) Signals(message string) []domain.SignalDef {
	var out []domain.SignalDef
	for _, def := range f.signals {
		if def.Message == message {
			out = append(out, def)
		}
	}
	return out
}

func (f *fakeDefs) Lookup(key domain.SignalKey) (domain.SignalDef, domain.MessageDef, bool) {
	def, ok := f.signals[key]
	if !ok {
		return domain.SignalDef{}, domain.MessageDef{}, false
	}
	for _, msg := range f.messages {
		if msg.Name == def.Message {
			return def, msg, true
		}
	}
	return domain.SignalDef{}, domain.MessageDef{}, false
}

func (f *fakeDefs) Path() string { return "fake.dbc" }

func engineKey() domain.SignalKey {
	return domain.SignalKey{Message: "Engine", Signal: "Speed"}
}

func testStores() (*fakeLog, *fakeDefs) {
	logStore := &fakeLog{
		frames: []domain.RawFrame{
			{ID: 0x1F4, Timestamp: 0.0, Data: []byte{0x0A, 0x00}},
			{ID: 0x0AA, Timestamp: 0.5, Data: []byte{0xFF}},
			{ID: 0x1F4, Timestamp: 1.0, Data: []byte{0x14, 0x00}},
			{ID: 0x1F4, Timestamp: 2.0, Data: []byte{0x1E, 0x00}},
		},
	}
	defStore := &fakeDefs{
		messages: map[uint32]domain.MessageDef{
			0x1F4: {ID: 0x1F4, Name: "Engine", Length: 2},
			0x200: {ID: 0x200, Name: "Climate", Length: 1},
		},
		signals: map[domain.SignalKey]domain.SignalDef{
			engineKey(): {
				Message: "Engine", Name: "Speed",
				Start: 0, Length: 16, Order: domain.LittleEndian,
				Scale: 1, Offset: 0, Unit: "km/h",
			},
		},
	}
	return logStore, defStore
}

func TestResolveDecodesMatchingFrames(t *testing.T) {
	logStore, defStore := testStores()
	r := New(logStore, defStore, nil)

	series, err := r.Resolve(engineKey())
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, "km/h", series.Unit)
	assert.Equal(t, 0, series.Skipped)

	wantTimes := []float64{0.0, 1.0, 2.0}
	wantValues := []float64{10, 20, 30}
	for i, s := range series.Samples {
		assert.InDelta(t, wantTimes[i], s.Time, 1e-9)
		assert.InDelta(t, wantValues[i], s.Value, 1e-9)
	}
}

func TestResolveReturnsCachedSeries(t *testing.T) {
	logStore, defStore := testStores()
	r := New(logStore, defStore, nil)

	first, err := r.Resolve(engineKey())
	require.NoError(t, err)
	second, err := r.Resolve(engineKey())
	require.NoError(t, err)

	assert.Same(t, first, second, "cache hit should return the identical series")
	assert.Len(t, r.CachedKeys(), 1)
}

func TestResolveSkipsShortFrames(t *testing.T) {
	logStore, defStore := testStores()
	// Truncated payload: one byte where the signal needs two.
	logStore.frames = append(logStore.frames, domain.RawFrame{
		ID: 0x1F4, Timestamp: 3.0, Data: []byte{0x28},
	})
	r := New(logStore, defStore, nil)

	series, err := r.Resolve(engineKey())
	require.NoError(t, err, "short frames are skipped, not fatal")
	assert.Equal(t, 3, series.Len())
	assert.Equal(t, 1, series.Skipped)
}

func TestResolveUnknownSignal(t *testing.T) {
	logStore, defStore := testStores()
	r := New(logStore, defStore, nil)

	_, err := r.Resolve(domain.SignalKey{Message: "Engine", Signal: "Nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownSignal)
}

func TestResolveWithoutStores(t *testing.T) {
	_, defStore := testStores()

	r := New(nil, defStore, nil)
	_, err := r.Resolve(engineKey())
	assert.ErrorIs(t, err, domain.ErrNoLogLoaded)

	logStore, _ := testStores()
	r = New(logStore, nil, nil)
	_, err = r.Resolve(engineKey())
	assert.ErrorIs(t, err, domain.ErrNoDatabaseLoaded)
}

func TestSetStoresInvalidatesCache(t *testing.T) {
	logStore, defStore := testStores()
	r := New(logStore, defStore, nil)

	first, err := r.Resolve(engineKey())
	require.NoError(t, err)

	r.SetStores(logStore, defStore)
	assert.Empty(t, r.CachedKeys())

	second, err := r.Resolve(engineKey())
	require.NoError(t, err)
	assert.NotSame(t, first, second, "reload must rebuild the series")
}

func TestMatchAvailable(t *testing.T) {
	logIDs := map[uint32]struct{}{
		0x1F4: {},
		0x0AA: {},
	}
	defs := map[uint32]domain.MessageDef{
		0x1F4: {ID: 0x1F4, Name: "Engine"},
		0x200: {ID: 0x200, Name: "Climate"},
	}

	matched := MatchAvailable(logIDs, defs)
	require.Len(t, matched, 1)
	assert.Equal(t, "Engine", matched[0x1F4].Name)
}

func TestIsAvailable(t *testing.T) {
	logStore, defStore := testStores()
	r := New(logStore, defStore, nil)

	assert.True(t, r.IsAvailable(engineKey()))
	assert.False(t, r.IsAvailable(domain.SignalKey{Message: "Climate", Signal: "Temp"}))
	assert.False(t, r.IsAvailable(domain.SignalKey{Message: "Nope", Signal: "Nope"}))
}
