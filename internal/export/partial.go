package export

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cansight/cansight/internal/domain"
)

// AppName and AppVersion identify the producer in export metadata.
const (
	AppName    = "cansight"
	AppVersion = "1.1.0"
)

// Metadata describes the origin of a partial export.
type Metadata struct {
	ExportID     string `json:"export_id"`
	ExportDate   string `json:"export_date"`
	AppName      string `json:"app_name"`
	AppVersion   string `json:"app_version"`
	LogPath      string `json:"log_path,omitempty"`
	DatabasePath string `json:"dbc_path,omitempty"`
}

// TimeRange is the exported cursor interval.
type TimeRange struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// PartialSignal holds one signal's raw samples inside the exported range.
// Time and Value are parallel arrays; no interpolation is applied.
type PartialSignal struct {
	Message     string    `json:"message"`
	Signal      string    `json:"signal"`
	Unit        string    `json:"unit"`
	Time        []float64 `json:"time"`
	Value       []float64 `json:"value"`
	SampleCount int       `json:"sample_count"`
}

// Partial is the full partial-export document.
type Partial struct {
	Metadata  Metadata                 `json:"metadata"`
	TimeRange TimeRange                `json:"time_range"`
	Signals   map[string]PartialSignal `json:"signals"`
}

// Summary describes a partial-export file without its sample data.
type Summary struct {
	Metadata    Metadata  `json:"metadata"`
	TimeRange   TimeRange `json:"time_range"`
	SignalCount int       `json:"signal_count"`
	SignalNames []string  `json:"signal_names"`
}

// BuildPartial assembles the partial-export document for the given series,
// restricted to the two-cursor interval. Returns ErrMissingCursors when
// fewer than two cursors are placed. Series with no samples inside the
// interval are omitted.
func BuildPartial(cols []Column, cursors domain.Cursors, logPath, dbcPath string) (*Partial, error) {
	interval, err := cursors.Interval()
	if err != nil {
		return nil, domain.ErrMissingCursors
	}

	doc := &Partial{
		Metadata: Metadata{
			ExportID:     uuid.NewString(),
			ExportDate:   time.Now().Format(time.RFC3339),
			AppName:      AppName,
			AppVersion:   AppVersion,
			LogPath:      logPath,
			DatabasePath: dbcPath,
		},
		TimeRange: TimeRange{
			Start:    interval.Start,
			End:      interval.End,
			Duration: interval.Duration(),
		},
		Signals: make(map[string]PartialSignal),
	}

	for _, col := range cols {
		samples := col.Series.Slice(interval.Start, interval.End)
		if len(samples) == 0 {
			continue
		}
		sig := PartialSignal{
			Message:     col.Series.Key.Message,
			Signal:      col.Series.Key.Signal,
			Unit:        col.Unit,
			Time:        make([]float64, len(samples)),
			Value:       make([]float64, len(samples)),
			SampleCount: len(samples),
		}
		for i, s := range samples {
			sig.Time[i] = s.Time
			sig.Value[i] = s.Value
		}
		doc.Signals[col.Series.Key.String()] = sig
	}

	return doc, nil
}

// WritePartialFile builds the document and writes it to path as indented
// JSON. No file is created when the cursor precondition fails.
func WritePartialFile(path string, cols []Column, cursors domain.Cursors, logPath, dbcPath string) error {
	doc, err := BuildPartial(cols, cursors, logPath, dbcPath)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadPartial loads a partial-export document from path.
func ReadPartial(path string) (*Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Partial
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadSummary loads summary information about a partial-export file.
func ReadSummary(path string) (*Summary, error) {
	doc, err := ReadPartial(path)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Metadata:    doc.Metadata,
		TimeRange:   doc.TimeRange,
		SignalCount: len(doc.Signals),
	}
	for name := range doc.Signals {
		s.SignalNames = append(s.SignalNames, name)
	}
	sort.Strings(s.SignalNames)
	return s, nil
}
