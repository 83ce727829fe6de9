package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	unit := Begin(tr, ScopeUnit, "unit:kernel", 0)
	block := Begin(tr, ScopeBlock, "block:Main", unit.ID())
	block.End("")
	unit.End("ok")

	out := buf.String()
	if !strings.Contains(out, "unit:kernel") {
		t.Fatalf("expected unit span in output:\n%s", out)
	}
	if strings.Contains(out, "block:Main") {
		t.Fatalf("block span must be filtered at detail level:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeBlock, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", events)
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("expected disabled tracer")
	}
}

func TestBothModeExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected *MultiTracer, got %T", tr)
	}
	Point(tr, ScopePass, "scan", "", 0)
	ring := multi.Ring()
	if ring == nil || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring should hold the point event")
	}
	if !strings.Contains(buf.String(), "scan") {
		t.Fatalf("stream output missing event: %q", buf.String())
	}
}
