package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReportsPhasesInOrder(t *testing.T) {
	clock := time.Unix(0, 0)
	tm := NewTimer()
	tm.now = func() time.Time { return clock }

	idx := tm.Begin("load")
	clock = clock.Add(2 * time.Millisecond)
	tm.End(idx, "3 units")
	tm.Measure("scan", func() string {
		clock = clock.Add(5 * time.Millisecond)
		return ""
	})

	report := tm.Report()
	if len(report.Phases) != 2 || report.Phases[0].Name != "load" || report.Phases[1].Name != "scan" {
		t.Fatalf("unexpected phases: %+v", report.Phases)
	}
	if report.TotalMS != 7 {
		t.Fatalf("TotalMS = %v, want 7", report.TotalMS)
	}
	if d, ok := tm.Duration("scan"); !ok || d != 5*time.Millisecond {
		t.Fatalf("Duration(scan) = %v, %v", d, ok)
	}
	if !strings.Contains(tm.Summary(), "// 3 units") {
		t.Fatalf("summary misses note:\n%s", tm.Summary())
	}
}
