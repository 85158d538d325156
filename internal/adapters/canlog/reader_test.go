package canlog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenParsesFrames(t *testing.T) {
	path := writeLog(t, `(1594112552.913657) can0 1F4#DEADBEEF
(1594112553.013657) can0 0AA#0102
(1594112553.113657) can0 1F4#CAFE
`)

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	frames := s.Frames()
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}

	first := frames[0]
	if first.ID != 0x1F4 {
		t.Errorf("ID = 0x%X, want 0x1F4", first.ID)
	}
	if first.Extended {
		t.Error("3-digit identifier parsed as extended")
	}
	if !bytes.Equal(first.Data, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("Data = %X, want DEADBEEF", first.Data)
	}

	ids := s.Identifiers()
	if len(ids) != 2 {
		t.Errorf("got %d identifiers, want 2", len(ids))
	}
	if _, ok := ids[0x0AA]; !ok {
		t.Error("identifier 0x0AA missing")
	}
}

func TestOpenNormalizesTimestamps(t *testing.T) {
	path := writeLog(t, `(100.500000) can0 100#01
(101.000000) can0 100#02
(102.500000) can0 100#03
`)

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	frames := s.Frames()
	if frames[0].Timestamp != 0 {
		t.Errorf("first timestamp = %v, want 0", frames[0].Timestamp)
	}
	if frames[1].Timestamp != 0.5 {
		t.Errorf("second timestamp = %v, want 0.5", frames[1].Timestamp)
	}
	if s.Duration() != 2.0 {
		t.Errorf("Duration() = %v, want 2", s.Duration())
	}
}

func TestOpenExtendedIdentifier(t *testing.T) {
	path := writeLog(t, "(1.0) can0 18FF1234#0102030405060708\n")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	frame := s.Frames()[0]
	if frame.ID != 0x18FF1234 {
		t.Errorf("ID = 0x%X, want 0x18FF1234", frame.ID)
	}
	if !frame.Extended {
		t.Error("8-digit identifier not parsed as extended")
	}
}

func TestOpenSkipsUnparseableLines(t *testing.T) {
	path := writeLog(t, `# comment line
(1.0) can0 100#01

garbage line here
(2.0) can0 100#R
(3.0) can0 ZZZ#01
(4.0) can0 100#02
`)

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(s.Frames()) != 2 {
		t.Errorf("got %d frames, want 2", len(s.Frames()))
	}
	if s.Skipped() != 3 {
		t.Errorf("Skipped() = %d, want 3", s.Skipped())
	}
}

func TestOpenEmptyPayload(t *testing.T) {
	path := writeLog(t, "(1.0) can0 100#\n")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(s.Frames()[0].Data) != 0 {
		t.Errorf("Data = %X, want empty", s.Frames()[0].Data)
	}
}

func TestOpenRejectsEmptyLog(t *testing.T) {
	path := writeLog(t, "# only a comment\n")

	if _, err := Open(path, nil); err == nil {
		t.Error("Open of frameless log passed, want error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.log"), nil); err == nil {
		t.Error("Open of missing file passed, want error")
	}
}
