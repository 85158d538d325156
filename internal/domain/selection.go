package domain

// MinGraphs and MaxGraphs bound the configurable graph count.
const (
	MinGraphs = 1
	MaxGraphs = 10
)

// SelectionPlan is the ordered set of currently chosen signal keys.
// Insertion order determines graph assignment and color index. The plan
// never exceeds its limit and never contains duplicates.
type SelectionPlan struct {
	limit int
	keys  []SignalKey
}

// NewSelectionPlan creates a plan with the given graph count limit.
// Limits outside [MinGraphs, MaxGraphs] are clamped.
func NewSelectionPlan(limit int) *SelectionPlan {
	if limit < MinGraphs {
		limit = MinGraphs
	}
	if limit > MaxGraphs {
		limit = MaxGraphs
	}
	return &SelectionPlan{limit: limit}
}

// Limit returns the maximum number of keys the plan accepts.
func (p *SelectionPlan) Limit() int { return p.limit }

// Len returns the number of selected keys.
func (p *SelectionPlan) Len() int { return len(p.keys) }

// Add appends key preserving insertion order. Returns ErrLimitExceeded when
// the plan is full and ErrAlreadySelected on a duplicate; the plan is left
// unchanged in both cases.
func (p *SelectionPlan) Add(key SignalKey) error {
	if p.Contains(key) {
		return ErrAlreadySelected
	}
	if len(p.keys) >= p.limit {
		return ErrLimitExceeded
	}
	p.keys = append(p.keys, key)
	return nil
}

// Remove deletes key from the plan, closing the gap so later keys shift
// down one graph slot. Returns false if the key was not selected.
func (p *SelectionPlan) Remove(key SignalKey) bool {
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all keys.
func (p *SelectionPlan) Clear() { p.keys = p.keys[:0] }

// Contains reports whether key is in the plan.
func (p *SelectionPlan) Contains(key SignalKey) bool {
	return p.Index(key) >= 0
}

// Index returns the key's position in insertion order, or -1.
// The position doubles as the graph and color index.
func (p *SelectionPlan) Index(key SignalKey) int {
	for i, k := range p.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Keys returns a copy of the selected keys in insertion order.
func (p *SelectionPlan) Keys() []SignalKey {
	out := make([]SignalKey, len(p.keys))
	copy(out, p.keys)
	return out
}
