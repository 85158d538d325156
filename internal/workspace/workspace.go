// Package workspace persists and restores the viewing session: source file
// paths, selected signal keys, graph count, theme flag, cursor positions
// and view range.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cansight/cansight/internal/domain"
)

// Extension is the conventional workspace file suffix.
const Extension = ".workspace"

// ViewRange holds the horizontal view bounds of the plot area.
type ViewRange struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
}

// Geometry holds the persisted window size.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Document is the persisted workspace. The pipeline does not interpret it
// beyond re-issuing resolve calls for the restored keys.
type Document struct {
	LogPath      string             `json:"log_path"`
	DatabasePath string             `json:"dbc_path"`
	Selected     []domain.SignalKey `json:"selected_signals"`
	GraphCount   int                `json:"graph_count"`
	DarkTheme    bool               `json:"dark_theme"`
	Cursors      []float64          `json:"cursors,omitempty"`
	View         *ViewRange         `json:"view_range,omitempty"`
	Window       *Geometry          `json:"window_geometry,omitempty"`
}

// Validate checks the document's internal consistency.
func (d *Document) Validate() error {
	if d.GraphCount < domain.MinGraphs || d.GraphCount > domain.MaxGraphs {
		return fmt.Errorf("workspace: graph count %d outside [%d,%d]",
			d.GraphCount, domain.MinGraphs, domain.MaxGraphs)
	}
	if len(d.Selected) > d.GraphCount {
		return fmt.Errorf("workspace: %d selected signals exceed graph count %d",
			len(d.Selected), d.GraphCount)
	}
	if len(d.Cursors) > 2 {
		return fmt.Errorf("workspace: %d cursors, at most 2 allowed", len(d.Cursors))
	}
	seen := make(map[domain.SignalKey]struct{}, len(d.Selected))
	for _, k := range d.Selected {
		if _, dup := seen[k]; dup {
			return fmt.Errorf("workspace: duplicate signal %s", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Save persists the document atomically: write to a temp file in the same
// directory, then rename over the target.
func Save(path string, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads and validates a workspace document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workspace %s: %w", path, err)
	}
	if doc.GraphCount == 0 {
		// Older documents predate the graph count field.
		doc.GraphCount = domain.MaxGraphs
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
