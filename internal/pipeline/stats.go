package pipeline

import (
	"math"

	"github.com/cansight/cansight/internal/domain"
)

// RangeStats aggregates the samples enclosed by a two-cursor interval.
type RangeStats struct {
	// Interval is the cursor range the statistics cover.
	Interval domain.Interval

	// Count is the number of samples inside the interval.
	Count int

	// Mean is the arithmetic mean of the enclosed values.
	Mean float64

	// Min and Max are the extreme values inside the interval.
	Min float64
	Max float64

	// StdDev is the population standard deviation,
	// sqrt(mean((x - mean)^2)).
	StdDev float64
}

// ComputeRange calculates statistics for the samples of series whose
// timestamps fall within the two-cursor interval, bounds inclusive.
//
// Returns ErrNoCursors when fewer than two cursors are placed and
// ErrEmptyRange when the interval encloses no samples. Pure function of
// its inputs; bounds are located by binary search on the time-ordered
// samples.
func ComputeRange(series *domain.Series, cursors domain.Cursors) (RangeStats, error) {
	interval, err := cursors.Interval()
	if err != nil {
		return RangeStats{}, err
	}

	samples := series.Slice(interval.Start, interval.End)
	if len(samples) == 0 {
		return RangeStats{}, domain.ErrEmptyRange
	}

	stats := RangeStats{
		Interval: interval,
		Count:    len(samples),
		Min:      samples[0].Value,
		Max:      samples[0].Value,
	}

	var sum float64
	for _, s := range samples {
		sum += s.Value
		if s.Value < stats.Min {
			stats.Min = s.Value
		}
		if s.Value > stats.Max {
			stats.Max = s.Value
		}
	}
	stats.Mean = sum / float64(len(samples))

	var sqDiff float64
	for _, s := range samples {
		d := s.Value - stats.Mean
		sqDiff += d * d
	}
	stats.StdDev = math.Sqrt(sqDiff / float64(len(samples)))

	return stats, nil
}
