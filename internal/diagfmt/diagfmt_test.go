package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"kilc/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	diag.ReportWarning(r, diag.ScanMissingSpecialType, "no String type").InUnit("Runtime").Emit()
	diag.ReportErrorf(r, diag.ScanOpNotFound, "%s.", "ldc.r8").InUnit("App").At("System.Void App.Main()", 0x1A).Emit()
	return bag
}

func TestPrettyAlignsLocations(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "warning SCN3004 Runtime ") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "App: System.Void App.Main()+0x1A  Conversion IL op not found: ldc.r8.") {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if strings.Index(lines[0], "no String") != strings.Index(lines[1], "Conversion") {
		t.Fatalf("messages not aligned:\n%s", buf.String())
	}
}

func TestPrettyGroupsByUnit(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{GroupByUnit: true})
	out := buf.String()
	if !strings.Contains(out, "Runtime\n  warning SCN3004 -") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "App\n  error   SCN3001 System.Void App.Main()+0x1A") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestJSONTruncates(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{Max: 1, IncludeTitle: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Truncated != 1 {
		t.Fatalf("count=%d truncated=%d", out.Count, out.Truncated)
	}
	d := out.Diagnostics[0]
	if d.Code != "SCN3004" || d.Title != diag.ScanMissingSpecialType.Title() || d.Offset != nil {
		t.Fatalf("unexpected entry %+v", d)
	}
}

func TestJSONKeepsZeroOffsetForMethods(t *testing.T) {
	bag := diag.NewBag(1)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.ScanOpFailure, "boom").InUnit("U").At("M", 0).Emit()
	out := BuildDiagnosticsOutput(bag, JSONOpts{})
	if out.Diagnostics[0].Offset == nil || *out.Diagnostics[0].Offset != 0 {
		t.Fatalf("offset should be present and zero: %+v", out.Diagnostics[0])
	}
}

func TestPrettyGroupsInterleavedUnits(t *testing.T) {
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.ScanOpFailure, "first").InUnit("App").Emit()
	diag.ReportError(r, diag.ScanOpFailure, "second").InUnit("Runtime").Emit()
	diag.ReportError(r, diag.ScanOpFailure, "third").InUnit("App").Emit()

	var buf bytes.Buffer
	Pretty(&buf, bag, PrettyOpts{GroupByUnit: true})
	out := buf.String()
	if strings.Count(out, "App\n") != 1 {
		t.Fatalf("App header printed more than once:\n%s", out)
	}
	if !(strings.Index(out, "first") < strings.Index(out, "third") &&
		strings.Index(out, "third") < strings.Index(out, "Runtime")) {
		t.Fatalf("App diagnostics not grouped:\n%s", out)
	}
}
