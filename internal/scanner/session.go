package scanner

import (
	"kilc/internal/asm"
	"kilc/internal/backend"
	"kilc/internal/diag"
	"kilc/internal/il"
	"kilc/internal/trace"
)

// Options configures a Session. Zero values are valid.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// ParentSpan nests the session's unit spans under a caller span.
	ParentSpan uint64
	// Specials overrides discovery of the runtime support types; by default
	// they are collected from the graph of the first scanned unit.
	Specials *il.Specials
	// OnUnitStart and OnUnitDone observe the scan body of every unit; the
	// start of a unit fires after its dependencies are done.
	OnUnitStart func(u *il.Unit)
	OnUnitDone  func(u *il.Unit, st Status)
}

// Session holds the state of one compilation run.
type Session struct {
	target   *backend.Target
	ops      asm.Constructors
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64

	specials *il.Specials
	layouts  map[il.SpecialKind][]asm.Slot

	owners     map[string]*il.Unit
	numericIDs map[*il.TypeDescriptor]int
	nextID     int

	statuses map[*il.Unit]Status
	order    []*il.Unit

	onStart func(*il.Unit)
	onDone  func(*il.Unit, Status)
}

// NewSession starts a run against target.
func NewSession(target *backend.Target, opts Options) *Session {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Session{
		target:     target,
		ops:        target.Ops(),
		reporter:   reporter,
		tracer:     tracer,
		parent:     opts.ParentSpan,
		specials:   opts.Specials,
		layouts:    make(map[il.SpecialKind][]asm.Slot),
		owners:     make(map[string]*il.Unit),
		numericIDs: make(map[*il.TypeDescriptor]int),
		nextID:     1,
		statuses:   make(map[*il.Unit]Status),
		onStart:    opts.OnUnitStart,
		onDone:     opts.OnUnitDone,
	}
}

// Target returns the backend the session translates for.
func (s *Session) Target() *backend.Target { return s.target }

// Owner returns the unit that registered the type id.
func (s *Session) Owner(typeID string) (*il.Unit, bool) {
	u, ok := s.owners[typeID]
	return u, ok
}

// NumericID returns the runtime id assigned to t.
func (s *Session) NumericID(t *il.TypeDescriptor) (int, bool) {
	id, ok := s.numericIDs[t]
	return id, ok
}

// Status returns the aggregate status recorded for a completely scanned unit.
func (s *Session) Status(u *il.Unit) (Status, bool) {
	st, ok := s.statuses[u]
	return st, ok
}

// Units returns the scanned units in completion order, dependencies first.
func (s *Session) Units() []*il.Unit {
	return s.order
}

// Worst folds the status of every scanned unit.
func (s *Session) Worst() Status {
	worst := StatusOK
	for _, u := range s.order {
		worst = Worse(worst, s.statuses[u])
	}
	return worst
}

// isExternal reports whether a reference from u to t needs link-time
// resolution: t is owned by another unit or is not one of u's own types.
func (s *Session) isExternal(u *il.Unit, t *il.TypeDescriptor) bool {
	if owner, ok := s.owners[t.ID]; ok && owner != u {
		return true
	}
	return !u.Owns(t)
}
