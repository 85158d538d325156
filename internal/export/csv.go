// Package export serializes resolved series to CSV and partial JSON
// documents. Exporters consume resolved series only; they never read raw
// frames or definitions.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cansight/cansight/internal/domain"
)

// Column pairs a resolved series with the label and unit used for its
// CSV header cell.
type Column struct {
	Label  string
	Unit   string
	Series *domain.Series
}

// Header returns the column's header cell, "<label> (<unit>)" or just the
// label when the unit is empty.
func (c Column) Header() string {
	if c.Unit != "" {
		return fmt.Sprintf("%s (%s)", c.Label, c.Unit)
	}
	return c.Label
}

// WriteCSV writes the columns as CSV: a header row, then one row per
// distinct timestamp across all series. Values at timestamps where a series
// has no exact sample are linearly interpolated between its two nearest
// samples; beyond a series' domain the edge value is held. When interval is
// non-nil only timestamps inside it are emitted.
func WriteCSV(w io.Writer, cols []Column, interval *domain.Interval) error {
	if len(cols) == 0 {
		return fmt.Errorf("csv export: no series")
	}

	clipped := make([][]domain.Sample, len(cols))
	var all []float64
	for i, col := range cols {
		samples := col.Series.Samples
		if interval != nil {
			samples = col.Series.Slice(interval.Start, interval.End)
		}
		clipped[i] = samples
		for _, s := range samples {
			all = append(all, s.Time)
		}
	}
	times := unifyTimes(all)
	if len(times) == 0 {
		return fmt.Errorf("csv export: no samples in range")
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(cols)+1)
	header = append(header, "Time (s)")
	for _, col := range cols {
		header = append(header, col.Header())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols)+1)
	for _, t := range times {
		row[0] = fmt.Sprintf("%.6f", t)
		for i := range cols {
			row[i+1] = fmt.Sprintf("%.6f", interpolate(clipped[i], t))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the columns to a file at path.
func WriteCSVFile(path string, cols []Column, interval *domain.Interval) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, cols, interval); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// unifyTimes sorts and deduplicates the merged timestamps of all series.
func unifyTimes(times []float64) []float64 {
	if len(times) == 0 {
		return nil
	}
	sort.Float64s(times)
	out := times[:1]
	for _, t := range times[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}

// interpolate returns the series value at time t: the exact sample when one
// exists, otherwise linear interpolation between the neighbors. Outside the
// sample domain the nearest edge value is held.
func interpolate(samples []domain.Sample, t float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if t <= samples[0].Time {
		return samples[0].Value
	}
	if t >= samples[n-1].Time {
		return samples[n-1].Value
	}
	// First sample with Time >= t; t is strictly inside the domain here.
	i := sort.Search(n, func(i int) bool { return samples[i].Time >= t })
	if samples[i].Time == t {
		return samples[i].Value
	}
	a, b := samples[i-1], samples[i]
	frac := (t - a.Time) / (b.Time - a.Time)
	return a.Value + frac*(b.Value-a.Value)
}
