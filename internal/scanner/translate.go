package scanner

import (
	"errors"
	"fmt"

	"kilc/internal/asm"
	"kilc/internal/backend"
	"kilc/internal/diag"
	"kilc/internal/il"
	"kilc/internal/trace"
)

// translate converts one instruction block and adds the result to the unit's
// output. A failed instruction abandons the rest of the block, but what was
// produced so far is still emitted.
func (s *Session) translate(u *il.Unit, b *il.Block, parent uint64) Status {
	result := &asm.Block{Origin: b.Method, Priority: b.Method.Priority}
	st := backend.NewState(u, b, result)
	span := trace.Begin(s.tracer, trace.ScopeBlock, b.Method.ID, parent)

	status := StatusOK
	for i := range b.Instrs {
		outcome := s.convert(st, &b.Instrs[i])
		status = Worse(status, outcome)
		if outcome == StatusFail {
			break
		}
	}

	u.Output.Add(result)
	span.WithExtra("ops", fmt.Sprint(result.Len())).End(status.String())
	return status
}

func (s *Session) convert(st *backend.State, in *il.Instruction) Status {
	pos := st.PositionOf(in)
	st.Emit(s.ops.Comment(fmt.Sprintf("%s  --  %s -- Offset: %02X",
		st.Result.GenerateILOpLabel(pos, ""), in.Name(), in.Offset)))
	mark := st.Result.Len()

	report := func(code diag.Code, format string, args ...any) {
		diag.ReportErrorf(s.reporter, code, format, args...).
			InUnit(st.Unit.ID).
			At(st.Method.MethodSignature(), in.Offset).
			Emit()
	}

	var h backend.Handler
	if in.Kind == il.KindNormal {
		var ok bool
		if h, ok = s.target.Handler(in.Op); !ok {
			report(diag.ScanOpNotFound, "%s.", in.Op)
			return StatusPartialFailure
		}
	} else if h = s.target.Pseudo(in.Kind); h == nil {
		report(diag.ScanOpFailure, "unknown instruction kind %d", in.Kind)
		return StatusFail
	}

	if err := safeConvert(h, st, in); err != nil {
		if errors.Is(err, backend.ErrUnsupported) || errors.Is(err, backend.ErrInvalidOp) {
			report(diag.ScanOpUnsupported, "%s. %v", in.Name(), err)
			return StatusPartialFailure
		}
		report(diag.ScanOpFailure, "%s: %v", in.Name(), err)
		return StatusFail
	}

	// first op of a branch target carries its position so the label can be placed
	if in.LabelRequired && mark < st.Result.Len() {
		meta := st.Result.Ops[mark].Meta()
		meta.ILPosition = pos
		meta.RequiresILLabel = true
	}
	return StatusOK
}

// safeConvert turns a handler panic into an error so one broken handler
// fails its block instead of the run.
func safeConvert(h backend.Handler, st *backend.State, in *il.Instruction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Convert(st, in)
}
