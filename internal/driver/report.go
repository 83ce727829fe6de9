package driver

import (
	"kilc/internal/diag"
	"kilc/internal/trace"
)

// traceReporter mirrors diagnostics into the trace as unit-scope points.
type traceReporter struct {
	tracer trace.Tracer
	parent uint64
}

func (r traceReporter) Report(d diag.Diagnostic) {
	if r.tracer == nil || !r.tracer.Enabled() {
		return
	}
	trace.Point(r.tracer, trace.ScopeUnit, "diag "+d.Code.ID(), d.Unit+": "+d.Message, r.parent)
}
