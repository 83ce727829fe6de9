// Package driver runs one compilation session: load the program graph and
// the backend, scan from the root, write the output.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kilc/internal/asmout"
	"kilc/internal/backend"
	"kilc/internal/backend/x86"
	"kilc/internal/diag"
	"kilc/internal/il"
	"kilc/internal/ilfile"
	"kilc/internal/observ"
	"kilc/internal/scanner"
	"kilc/internal/trace"
)

// DefaultTarget is used when the request names none.
const DefaultTarget = x86.Selector

// NewRegistry returns a registry with every built-in target.
func NewRegistry() *backend.Registry {
	r := backend.NewRegistry()
	x86.Register(r)
	return r
}

// Request describes one run. Either Program or Input must be set.
type Request struct {
	Input   string
	Program *ilfile.Program
	Target  string
	// OutputDir receives one .asm file per unit; empty skips writing.
	OutputDir      string
	MaxDiagnostics int
	Registry       *backend.Registry
	Timings        bool
	Progress       ProgressSink
	// Reporter, if set, sees every diagnostic, including those past the bag cap.
	Reporter diag.Reporter
}

// UnitResult is the outcome of one scanned unit.
type UnitResult struct {
	Unit   *il.Unit
	Status scanner.Status
	Path   string
}

// Result of Compile. Units are in scan order, dependencies first.
type Result struct {
	Target  string
	Units   []UnitResult
	Status  scanner.Status
	Bag     *diag.Bag
	Timer   *observ.Timer
	Counts  *diag.CountingReporter
	Elapsed time.Duration
}

// Compile runs the session described by req. A *backend.ConfigurationError
// or a load failure aborts before any unit is scanned; scan failures are
// reported through Result.Status and Result.Bag instead.
func Compile(ctx context.Context, req Request) (*Result, error) {
	if req.Program == nil && req.Input == "" {
		return nil, errors.New("no input program")
	}
	started := time.Now()
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "compile", 0)

	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	res := &Result{
		Target: req.Target,
		Bag:    diag.NewBag(maxDiag),
		Timer:  observ.NewTimer(),
	}
	if res.Target == "" {
		res.Target = DefaultTarget
	}
	res.Counts = &diag.CountingReporter{Next: diag.MultiReporter{
		diag.BagReporter{Bag: res.Bag},
		traceReporter{tracer: tracer, parent: root.ID()},
		req.Reporter,
	}}
	prog := req.Program

	phase := func(stage Stage, fn func() (string, error)) error {
		name := string(stage)
		emitProgress(req.Progress, Event{Stage: stage, Status: StatusWorking})
		span := trace.Begin(tracer, trace.ScopePass, name, root.ID())
		idx := res.Timer.Begin(name)
		note, err := fn()
		res.Timer.End(idx, note)
		span.End(note)
		elapsed, _ := res.Timer.Duration(name)
		evt := Event{Stage: stage, Status: StatusDone, Elapsed: elapsed, Err: err}
		if err != nil {
			evt.Status = StatusError
		}
		if stage == StageLoad && prog != nil {
			il.Walk(prog.Root, func(*il.Unit) { evt.Total++ })
		}
		emitProgress(req.Progress, evt)
		return err
	}

	if prog == nil {
		err := phase(StageLoad, func() (string, error) {
			var err error
			prog, err = ilfile.Load(req.Input)
			if err != nil {
				return "failed", err
			}
			return fmt.Sprintf("%d units", len(prog.Units)), nil
		})
		if err != nil {
			root.End("load failed")
			return nil, fmt.Errorf("load: %w", err)
		}
	} else {
		evt := Event{Stage: StageLoad, Status: StatusDone}
		il.Walk(prog.Root, func(*il.Unit) { evt.Total++ })
		emitProgress(req.Progress, evt)
	}

	registry := req.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	var target *backend.Target
	err := phase(StageBackend, func() (string, error) {
		var err error
		target, err = registry.Load(res.Target)
		if err != nil {
			return "failed", err
		}
		return fmt.Sprintf("%s, %d opcodes", target.Name(), len(target.Opcodes())), nil
	})
	if err != nil {
		root.End("configuration error")
		return nil, err
	}

	var session *scanner.Session
	_ = phase(StageScan, func() (string, error) {
		session = scanner.NewSession(target, scanner.Options{
			Reporter:   res.Counts,
			Tracer:     tracer,
			ParentSpan: root.ID(),
			OnUnitStart: func(u *il.Unit) {
				emitProgress(req.Progress, Event{Unit: u.ID, Stage: StageScan, Status: StatusWorking})
			},
			OnUnitDone: func(u *il.Unit, st scanner.Status) {
				emitProgress(req.Progress, Event{Unit: u.ID, Stage: StageScan, Status: unitProgress(st)})
			},
		})
		session.Scan(prog.Root)
		res.Status = session.Worst()
		return res.Status.String(), nil
	})

	scannedUnits := session.Units()
	res.Units = make([]UnitResult, len(scannedUnits))
	for i, u := range scannedUnits {
		st, _ := session.Status(u)
		res.Units[i] = UnitResult{Unit: u, Status: st}
	}

	if req.OutputDir != "" {
		err := phase(StageEmit, func() (string, error) {
			paths, err := asmout.WriteAll(ctx, req.OutputDir, scannedUnits)
			if err != nil {
				return "failed", err
			}
			for i, p := range paths {
				res.Units[i].Path = p
			}
			return fmt.Sprintf("%d files", len(paths)), nil
		})
		if err != nil {
			diag.ReportErrorf(res.Counts, diag.EmitWriteFailed, "%v", err).Emit()
			res.Status = scanner.StatusFail
		}
	}

	if req.Timings {
		report := res.Timer.Report()
		appendTimingDiagnostic(res.Bag, timingPayload{
			Input:   req.Input,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}

	res.Elapsed = time.Since(started)
	root.End(res.Status.String())
	return res, nil
}

func unitProgress(st scanner.Status) Status {
	switch st {
	case scanner.StatusOK:
		return StatusDone
	case scanner.StatusPartialFailure:
		return StatusPartial
	}
	return StatusError
}
