package domain

import "testing"

func TestGraphColor(t *testing.T) {
	if got := GraphColor(0); got != GraphPalette[0] {
		t.Errorf("GraphColor(0) = %q, want %q", got, GraphPalette[0])
	}
	if got := GraphColor(len(GraphPalette)); got != GraphPalette[0] {
		t.Errorf("GraphColor wraps to %q, want %q", got, GraphPalette[0])
	}
	if got := GraphColor(-1); got != GraphPalette[0] {
		t.Errorf("GraphColor(-1) = %q, want first color", got)
	}
}
