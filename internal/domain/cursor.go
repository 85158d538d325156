package domain

// Interval is a closed time range [Start, End] in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// Contains reports whether t lies within the interval, bounds inclusive.
func (iv Interval) Contains(t float64) bool { return t >= iv.Start && t <= iv.End }

// Cursors holds zero, one or two user-placed time markers.
// Two cursors define the interval [min, max] used by statistics and
// partial export.
type Cursors struct {
	positions []float64
}

// NewCursors creates a cursor set from up to two positions.
// Extra positions beyond the second are ignored.
func NewCursors(positions ...float64) Cursors {
	if len(positions) > 2 {
		positions = positions[:2]
	}
	c := Cursors{positions: make([]float64, len(positions))}
	copy(c.positions, positions)
	return c
}

// Positions returns a copy of the cursor positions in placement order.
func (c Cursors) Positions() []float64 {
	out := make([]float64, len(c.positions))
	copy(out, c.positions)
	return out
}

// Count returns the number of placed cursors.
func (c Cursors) Count() int { return len(c.positions) }

// Interval returns the time range enclosed by two cursors, ordered so that
// Start <= End. Returns ErrNoCursors when fewer than two cursors are placed.
func (c Cursors) Interval() (Interval, error) {
	if len(c.positions) < 2 {
		return Interval{}, ErrNoCursors
	}
	a, b := c.positions[0], c.positions[1]
	if b < a {
		a, b = b, a
	}
	return Interval{Start: a, End: b}, nil
}
