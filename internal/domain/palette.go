package domain

// GraphPalette holds the plot colors assigned to selected signals, in
// selection order. Wraps around when more signals are selected than colors
// defined.
var GraphPalette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// GraphColor returns the palette color for the given selection index.
func GraphColor(index int) string {
	if index < 0 {
		index = 0
	}
	return GraphPalette[index%len(GraphPalette)]
}
