package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cansight/cansight/internal/domain"
)

func statsSeries() *domain.Series {
	return &domain.Series{
		Key: engineKey(),
		Samples: []domain.Sample{
			{Time: 0.0, Value: 1},
			{Time: 1.0, Value: 2},
			{Time: 2.0, Value: 3},
			{Time: 3.0, Value: 4},
		},
	}
}

func TestComputeRange(t *testing.T) {
	stats, err := ComputeRange(statsSeries(), domain.NewCursors(0.0, 3.0))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 2.5, stats.Mean, 1e-9)
	assert.InDelta(t, 1.0, stats.Min, 1e-9)
	assert.InDelta(t, 4.0, stats.Max, 1e-9)
	// Population standard deviation of {1,2,3,4}: sqrt(1.25).
	assert.InDelta(t, 1.118033988749895, stats.StdDev, 1e-9)
}

func TestComputeRangeBoundsInclusive(t *testing.T) {
	stats, err := ComputeRange(statsSeries(), domain.NewCursors(1.0, 2.0))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 2.5, stats.Mean, 1e-9)
	assert.InDelta(t, 2.0, stats.Min, 1e-9)
	assert.InDelta(t, 3.0, stats.Max, 1e-9)
}

func TestComputeRangeReversedCursors(t *testing.T) {
	forward, err := ComputeRange(statsSeries(), domain.NewCursors(0.5, 2.5))
	require.NoError(t, err)
	reversed, err := ComputeRange(statsSeries(), domain.NewCursors(2.5, 0.5))
	require.NoError(t, err)

	assert.Equal(t, forward, reversed)
}

func TestComputeRangeNoCursors(t *testing.T) {
	_, err := ComputeRange(statsSeries(), domain.NewCursors())
	assert.ErrorIs(t, err, domain.ErrNoCursors)

	_, err = ComputeRange(statsSeries(), domain.NewCursors(1.0))
	assert.ErrorIs(t, err, domain.ErrNoCursors)
}

func TestComputeRangeEmptyInterval(t *testing.T) {
	_, err := ComputeRange(statsSeries(), domain.NewCursors(10.0, 20.0))
	assert.ErrorIs(t, err, domain.ErrEmptyRange)
}

func TestComputeRangeSingleSample(t *testing.T) {
	stats, err := ComputeRange(statsSeries(), domain.NewCursors(2.0, 2.0))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Count)
	assert.InDelta(t, 3.0, stats.Mean, 1e-9)
	assert.InDelta(t, 0.0, stats.StdDev, 1e-9)
}
