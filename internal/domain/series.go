package domain

import "sort"

// Sample is one decoded point of a resolved series.
type Sample struct {
	// Time is seconds since the start of the log.
	Time float64

	// Value is the physical value after scale and offset.
	Value float64
}

// Series is the resolved time series for one signal key.
// Samples are ordered by time, non-decreasing, because frames are decoded
// in log order. A cached series must be treated as read-only by callers.
type Series struct {
	// Key names the signal this series was decoded from.
	Key SignalKey

	// Unit is the physical unit of the values, possibly empty.
	Unit string

	// Samples holds the decoded points in log order.
	Samples []Sample

	// Skipped counts frames whose payload was too short for the signal's
	// bit range and were dropped during resolution.
	Skipped int
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.Samples) }

// Empty returns true if the series holds no samples.
func (s *Series) Empty() bool { return len(s.Samples) == 0 }

// Domain returns the first and last timestamps. ok is false for an empty
// series.
func (s *Series) Domain() (start, end float64, ok bool) {
	if len(s.Samples) == 0 {
		return 0, 0, false
	}
	return s.Samples[0].Time, s.Samples[len(s.Samples)-1].Time, true
}

// Window returns the index range [lo, hi) of samples whose timestamps fall
// within [start, end], both bounds inclusive. Uses binary search on the
// time-ordered samples.
func (s *Series) Window(start, end float64) (lo, hi int) {
	lo = sort.Search(len(s.Samples), func(i int) bool {
		return s.Samples[i].Time >= start
	})
	hi = sort.Search(len(s.Samples), func(i int) bool {
		return s.Samples[i].Time > end
	})
	return lo, hi
}

// Slice returns the samples inside [start, end] without copying.
func (s *Series) Slice(start, end float64) []Sample {
	lo, hi := s.Window(start, end)
	return s.Samples[lo:hi]
}
