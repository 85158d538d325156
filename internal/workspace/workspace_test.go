package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cansight/cansight/internal/domain"
)

func testDoc() *Document {
	return &Document{
		LogPath:      "/data/drive.log",
		DatabasePath: "/data/vehicle.dbc",
		Selected: []domain.SignalKey{
			{Message: "Engine", Signal: "Speed"},
			{Message: "Engine", Signal: "Temp"},
		},
		GraphCount: 5,
		DarkTheme:  true,
		Cursors:    []float64{1.5, 4.0},
		View:       &ViewRange{XMin: 0, XMax: 10},
		Window:     &Geometry{Width: 1280, Height: 800},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session"+Extension)

	doc := testDoc()
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", doc, loaded)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session"+Extension)

	if err := Save(path, testDoc()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "session"+Extension)

	if err := Save(path, testDoc()); err != nil {
		t.Fatalf("Save into missing directory failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		wantOK bool
	}{
		{"valid", func(d *Document) {}, true},
		{"graph count too low", func(d *Document) { d.GraphCount = 0 }, false},
		{"graph count too high", func(d *Document) { d.GraphCount = 11 }, false},
		{"selection exceeds graph count", func(d *Document) { d.GraphCount = 1 }, false},
		{"too many cursors", func(d *Document) { d.Cursors = []float64{1, 2, 3} }, false},
		{"duplicate selection", func(d *Document) {
			d.Selected = append(d.Selected, d.Selected[0])
		}, false},
		{"no cursors", func(d *Document) { d.Cursors = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDoc()
			tt.mutate(doc)
			err := doc.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("Validate() passed, want error")
			}
		})
	}
}

func TestLoadDefaultsMissingGraphCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old"+Extension)
	legacy := `{"log_path": "a.log", "dbc_path": "a.dbc", "selected_signals": []}`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.GraphCount != domain.MaxGraphs {
		t.Errorf("GraphCount = %d for legacy document, want %d", doc.GraphCount, domain.MaxGraphs)
	}
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+Extension)

	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed JSON passed, want error")
	}

	invalid := `{"graph_count": 99, "selected_signals": []}`
	if err := os.WriteFile(path, []byte(invalid), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of out-of-range graph count passed, want error")
	}
}
