package scanner

import (
	"fmt"
	"strings"

	"kilc/internal/asm"
	"kilc/internal/diag"
	"kilc/internal/il"
	"kilc/internal/trace"
)

// unitBlocks are the metadata blocks every scanned unit gets.
type unitBlocks struct {
	strings *asm.Block
	statics *asm.Block
	types   *asm.Block
	methods *asm.Block
	fields  *asm.Block
}

// Scan scans u and, before it, every dependency of u. A unit is scanned at
// most once per session: the flag is set before recursing, so a unit reached
// again through a dependency cycle counts as already available and yields
// StatusOK.
//
// Scan never stops early. Every type and block is processed and the worst
// outcome is returned; details go to the reporter.
func (s *Session) Scan(u *il.Unit) Status {
	if u == nil {
		return StatusOK
	}
	if !u.MarkScanned() {
		return s.statuses[u]
	}
	if s.specials == nil {
		s.specials = il.CollectSpecials(u)
		s.reportMissingSpecials(u)
	}

	for _, dep := range u.Dependencies {
		s.Scan(dep)
	}

	if s.onStart != nil {
		s.onStart(u)
	}
	span := trace.Begin(s.tracer, trace.ScopeUnit, "scan "+u.ID, s.parent)
	status := StatusOK

	blocks := unitBlocks{
		strings: u.Output.NewBlock(asm.PriorityStringLiterals),
		statics: u.Output.NewBlock(asm.PriorityStaticFields),
		types:   u.Output.NewBlock(asm.PriorityTypesTable),
		methods: u.Output.NewBlock(asm.PriorityMethodTables),
		fields:  u.Output.NewBlock(asm.PriorityFieldTables),
	}

	// by index: handlers may append types while the unit is scanned
	var fresh int
	for i := 0; i < len(u.Types); i++ {
		t := u.Types[i]
		if _, seen := s.owners[t.ID]; seen {
			continue
		}
		s.owners[t.ID] = u
		fresh++
		status = Worse(status, s.scanStaticFields(u, t, blocks.statics))
		status = Worse(status, s.scanType(u, t, blocks.types))
		status = Worse(status, s.scanMethods(u, t, blocks.methods))
		status = Worse(status, s.scanFields(u, t, blocks.fields))
	}

	for _, b := range u.Blocks {
		if b == nil || b.Method == nil {
			diag.ReportError(s.reporter, diag.ScanOpFailure, "instruction block without method").
				InUnit(u.ID).
				Emit()
			status = StatusFail
			continue
		}
		if b.Plugged() {
			status = Worse(status, s.scanPlugged(u, b))
			continue
		}
		status = Worse(status, s.translate(u, b, span.ID()))
	}

	// literals registered by the type table and by handlers are all known now
	status = Worse(status, s.scanStringLiterals(u, blocks.strings))

	s.statuses[u] = status
	s.order = append(s.order, u)
	span.WithExtra("types", fmt.Sprint(fresh)).
		WithExtra("blocks", fmt.Sprint(len(u.Blocks))).
		End(status.String())
	if s.onDone != nil {
		s.onDone(u, status)
	}
	return status
}

func (s *Session) reportMissingSpecials(root *il.Unit) {
	missing := s.specials.Missing()
	if len(missing) == 0 {
		return
	}
	names := make([]string, len(missing))
	for i, k := range missing {
		names[i] = k.String()
	}
	diag.ReportWarning(s.reporter, diag.ScanMissingSpecialType,
		fmt.Sprintf("%s: %s; affected tables use an empty record layout",
			diag.ScanMissingSpecialType.Title(), strings.Join(names, ", "))).
		InUnit(root.ID).
		Emit()
}
