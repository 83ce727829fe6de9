package ui

import (
	"strings"
	"testing"

	"kilc/internal/driver"
)

func TestProgressTracksUnits(t *testing.T) {
	m := NewProgressModel("kilc scan", nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageLoad, Status: driver.StatusDone, Total: 2})
	m.applyEvent(driver.Event{Stage: driver.StageScan, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Unit: "Runtime", Stage: driver.StageScan, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Unit: "Runtime", Stage: driver.StageScan, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Unit: "App", Stage: driver.StageScan, Status: driver.StatusWorking})

	if got := m.fraction(); got != 0.5 {
		t.Fatalf("fraction = %v, want 0.5", got)
	}
	m.applyEvent(driver.Event{Unit: "App", Stage: driver.StageScan, Status: driver.StatusPartial})
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v, want 1", got)
	}

	view := m.View()
	if !strings.Contains(view, "(scanning)") || !strings.Contains(view, "Runtime") || !strings.Contains(view, "partial") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("very_long_unit_identifier", 10); got != "very_lo..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
