// Package canlog implements ports.LogStore for candump-style text logs,
// one frame per line:
//
//	(1594112552.913657) can0 1F4#DEADBEEF
//
// Standard identifiers are three hex digits, extended identifiers eight.
// Remote frames ("#R") and malformed lines are skipped with a log entry.
package canlog

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cansight/cansight/internal/domain"
	"github.com/cansight/cansight/pkg/log"
)

// Store holds the frames of one loaded log file.
// Timestamps are normalized so the first frame is at time zero. The store
// is read-only after Open returns.
type Store struct {
	path     string
	frames   []domain.RawFrame
	ids      map[uint32]struct{}
	duration float64
	skipped  int
}

// Open reads and parses the log file at path.
func Open(path string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &Store{path: path, ids: make(map[uint32]struct{})}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		frame, err := parseLine(line)
		if err != nil {
			s.skipped++
			logger.Debug("skipping log line",
				log.Int("line", lineNo),
				log.Err(err),
			)
			continue
		}
		s.frames = append(s.frames, frame)
		s.ids[frame.ID] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("no frames in %s", path)
	}

	// Normalize timestamps so the log starts at zero.
	start := s.frames[0].Timestamp
	for i := range s.frames {
		s.frames[i].Timestamp -= start
	}
	s.duration = s.frames[len(s.frames)-1].Timestamp

	if s.skipped > 0 {
		logger.Warn("unparseable lines skipped",
			log.String("path", path),
			log.Int("skipped", s.skipped),
		)
	}
	logger.Info("log loaded",
		log.String("path", path),
		log.Int("frames", len(s.frames)),
		log.Int("ids", len(s.ids)),
		log.Float64("duration_s", s.duration),
	)
	return s, nil
}

// parseLine parses one candump log line into a raw frame.
func parseLine(line string) (domain.RawFrame, error) {
	var frame domain.RawFrame

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return frame, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	ts := fields[0]
	if len(ts) < 3 || ts[0] != '(' || ts[len(ts)-1] != ')' {
		return frame, fmt.Errorf("bad timestamp %q", ts)
	}
	seconds, err := strconv.ParseFloat(ts[1:len(ts)-1], 64)
	if err != nil {
		return frame, fmt.Errorf("bad timestamp %q: %w", ts, err)
	}
	frame.Timestamp = seconds

	idData := fields[2]
	sep := strings.IndexByte(idData, '#')
	if sep < 0 {
		return frame, fmt.Errorf("missing '#' in %q", idData)
	}
	idPart, dataPart := idData[:sep], idData[sep+1:]

	id, err := strconv.ParseUint(idPart, 16, 32)
	if err != nil {
		return frame, fmt.Errorf("bad identifier %q: %w", idPart, err)
	}
	frame.ID = uint32(id)
	frame.Extended = len(idPart) > 3

	if strings.HasPrefix(dataPart, "R") {
		return frame, fmt.Errorf("remote frame")
	}
	if dataPart != "" {
		data, err := hex.DecodeString(dataPart)
		if err != nil {
			return frame, fmt.Errorf("bad payload %q: %w", dataPart, err)
		}
		frame.Data = data
	}
	return frame, nil
}

// Frames returns all frames in log order.
func (s *Store) Frames() []domain.RawFrame { return s.frames }

// Identifiers returns the set of distinct arbitration IDs.
func (s *Store) Identifiers() map[uint32]struct{} { return s.ids }

// Path returns the source file path.
func (s *Store) Path() string { return s.path }

// Duration returns the log length in seconds.
func (s *Store) Duration() float64 { return s.duration }

// Skipped returns the number of unparseable lines dropped during load.
func (s *Store) Skipped() int { return s.skipped }
