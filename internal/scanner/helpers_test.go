package scanner

import (
	"errors"
	"fmt"
	"testing"

	"kilc/internal/asm"
	"kilc/internal/backend"
	"kilc/internal/diag"
	"kilc/internal/il"
)

// entryOp records the typed entry a constructor was called with.
type entryOp[E any] struct {
	asm.OpMeta
	kind  asm.OpKind
	Entry E
}

func (o *entryOp[E]) Kind() asm.OpKind { return o.kind }

func (o *entryOp[E]) Render() string { return fmt.Sprintf("%v", o.Entry) }

func newEntryOp[E any](kind asm.OpKind) func(E) asm.Op {
	return func(e E) asm.Op { return &entryOp[E]{kind: kind, Entry: e} }
}

func recordingOps() asm.Constructors {
	return asm.Constructors{
		Comment:       newEntryOp[string](asm.OpComment),
		TypeTable:     newEntryOp[asm.TypeTableEntry](asm.OpTypeTable),
		MethodTable:   newEntryOp[asm.MethodTableEntry](asm.OpMethodTable),
		FieldTable:    newEntryOp[asm.FieldTableEntry](asm.OpFieldTable),
		StringLiteral: newEntryOp[asm.StringLiteralEntry](asm.OpStringLiteral),
		StaticField:   newEntryOp[asm.StaticFieldEntry](asm.OpStaticField),
	}
}

func emit(text string) func(st *backend.State, in *il.Instruction) error {
	return func(st *backend.State, in *il.Instruction) error {
		st.Emit(&entryOp[string]{kind: asm.OpInstr, Entry: text})
		return nil
	}
}

var errBoom = errors.New("boom")

// testTarget handles nop and ldstr normally, reports ldc.r4 as unsupported,
// fails throw with a plain error and panics on break.
func testTarget(t *testing.T) *backend.Target {
	t.Helper()
	reg := backend.NewRegistry()
	reg.Register("test", func(b *backend.Builder) {
		b.MethodStart(backend.HandlerFunc(emit("enter")))
		b.MethodEnd(backend.HandlerFunc(emit("leave")))
		b.StackSwitch(backend.HandlerFunc(func(*backend.State, *il.Instruction) error { return nil }))
		b.HandleFunc(emit("nop"), il.OpNop)
		b.HandleFunc(func(st *backend.State, in *il.Instruction) error {
			st.Emit(&entryOp[string]{kind: asm.OpInstr, Entry: st.Unit.AddStringLiteral(in.Operand.Text)})
			return nil
		}, il.OpLdstr)
		b.HandleFunc(func(*backend.State, *il.Instruction) error {
			return backend.Unsupportedf("floats")
		}, il.OpLdcR4)
		b.HandleFunc(func(*backend.State, *il.Instruction) error { return errBoom }, il.OpThrow)
		b.HandleFunc(func(*backend.State, *il.Instruction) error { panic("broken handler") }, il.OpBreak)
		b.Ops(recordingOps())
	})
	target, err := reg.Load("test")
	if err != nil {
		t.Fatalf("load test target: %v", err)
	}
	return target
}

func newSession(t *testing.T) (*Session, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	return NewSession(testTarget(t), Options{
		Reporter: diag.BagReporter{Bag: bag},
		Specials: &il.Specials{},
	}), bag
}

func newType(u *il.Unit, id string) *il.TypeDescriptor {
	return u.AddType(&il.TypeDescriptor{ID: id, FullName: "NS." + id, HeapSize: 8, StackSize: 4})
}

func addBlock(t *testing.T, u *il.Unit, methodID string, instrs ...il.Instruction) *il.MethodDescriptor {
	t.Helper()
	m := &il.MethodDescriptor{ID: methodID, Signature: "void " + methodID + "()"}
	if err := u.AddBlock(&il.Block{Method: m, Instrs: instrs}); err != nil {
		t.Fatalf("add block: %v", err)
	}
	return m
}

// opsOf collects the entries of ops of type E from every block of u.
func opsOf[E any](u *il.Unit) []E {
	var out []E
	for _, b := range u.Output.Blocks {
		for _, op := range b.Ops {
			if e, ok := op.(*entryOp[E]); ok {
				out = append(out, e.Entry)
			}
		}
	}
	return out
}

func blockWithPriority(t *testing.T, u *il.Unit, priority int64) *asm.Block {
	t.Helper()
	for _, b := range u.Output.Blocks {
		if b.Priority == priority {
			return b
		}
	}
	t.Fatalf("unit %s has no block with priority %d", u.ID, priority)
	return nil
}

func codeBlock(t *testing.T, u *il.Unit, m *il.MethodDescriptor) *asm.Block {
	t.Helper()
	for _, b := range u.Output.Blocks {
		if b.Origin == asm.Origin(m) {
			return b
		}
	}
	t.Fatalf("no output block for %s", m.ID)
	return nil
}

func errorsOf(bag *diag.Bag) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}
