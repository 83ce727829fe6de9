package diag

import "fmt"

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter, MultiReporter (fan-out).
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, msg)
}

// ReportErrorf formats the message with the code title as prefix, the way
// every scan failure line reads: "<title>: <detail>".
func ReportErrorf(r Reporter, code Code, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, code.Title()+": "+fmt.Sprintf(format, args...))
}

// InUnit sets the unit the diagnostic belongs to.
func (b *ReportBuilder) InUnit(unit string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Unit = unit
	return b
}

// At sets the originating method signature and IL byte offset.
func (b *ReportBuilder) At(method string, offset int) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Method = method
	b.diag.Offset = offset
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans a diagnostic out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

// CountingReporter counts diagnostics per severity before forwarding them.
// The counts stay accurate even when the bag behind Next is full.
type CountingReporter struct {
	Next   Reporter
	counts [SevError + 1]int
}

func (r *CountingReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	if int(d.Severity) < len(r.counts) {
		r.counts[d.Severity]++
	}
	if r.Next != nil {
		r.Next.Report(d)
	}
}

// Count returns how many diagnostics of sev were reported.
func (r *CountingReporter) Count(sev Severity) int {
	if r == nil || int(sev) >= len(r.counts) {
		return 0
	}
	return r.counts[sev]
}
