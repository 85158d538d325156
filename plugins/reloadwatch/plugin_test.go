package reloadwatch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cansight/cansight/pkg/log"
)

type fakeReloader struct {
	reloads atomic.Int32
	logPath string
	dbcPath string
}

func (f *fakeReloader) Reload() error {
	f.reloads.Add(1)
	return nil
}

func (f *fakeReloader) SourcePaths() (string, string) {
	return f.logPath, f.dbcPath
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DebounceDelay != 250*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 250ms", cfg.DebounceDelay)
	}

	p := New(Config{})
	if p.debounceDelay != 250*time.Millisecond {
		t.Errorf("zero config debounce = %v, want default", p.debounceDelay)
	}
	if p.Name() != "reloadwatch" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	session := &fakeReloader{}
	p := New(Config{DebounceDelay: 20 * time.Millisecond})
	p.session = session
	p.logger = log.NewNoopLogger()

	// A burst of events must produce a single reload.
	for i := 0; i < 5; i++ {
		p.debounceReload(p.debounceDelay)
	}

	deadline := time.After(time.Second)
	for session.reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	time.Sleep(50 * time.Millisecond)
	if got := session.reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestWatchTargets(t *testing.T) {
	p := New(DefaultConfig())

	p.session = &fakeReloader{logPath: "/a/drive.log", dbcPath: "/b/vehicle.dbc"}
	if got := p.watchTargets(); len(got) != 2 {
		t.Errorf("watchTargets() = %v, want 2 paths", got)
	}
	if !p.isSource("/a/drive.log") {
		t.Error("isSource missed the log path")
	}
	if p.isSource("/a/other.log") {
		t.Error("isSource matched an unrelated path")
	}

	p.session = &fakeReloader{}
	if got := p.watchTargets(); len(got) != 0 {
		t.Errorf("watchTargets() with nothing loaded = %v, want empty", got)
	}
}
