package backend

import (
	"errors"
	"testing"

	"kilc/internal/asm"
	"kilc/internal/il"
)

type textOp struct {
	asm.OpMeta
	kind asm.OpKind
	text string
}

func (o *textOp) Kind() asm.OpKind { return o.kind }
func (o *textOp) Render() string   { return o.text }

func fullConstructors() asm.Constructors {
	return asm.Constructors{
		Comment:       func(s string) asm.Op { return &textOp{kind: asm.OpComment, text: s} },
		TypeTable:     func(asm.TypeTableEntry) asm.Op { return &textOp{kind: asm.OpTypeTable} },
		MethodTable:   func(asm.MethodTableEntry) asm.Op { return &textOp{kind: asm.OpMethodTable} },
		FieldTable:    func(asm.FieldTableEntry) asm.Op { return &textOp{kind: asm.OpFieldTable} },
		StringLiteral: func(asm.StringLiteralEntry) asm.Op { return &textOp{kind: asm.OpStringLiteral} },
		StaticField:   func(asm.StaticFieldEntry) asm.Op { return &textOp{kind: asm.OpStaticField} },
	}
}

var nopHandler = HandlerFunc(func(*State, *il.Instruction) error { return nil })

func completeFactory(b *Builder) {
	b.Handle(nopHandler, il.OpNop)
	b.MethodStart(nopHandler)
	b.MethodEnd(nopHandler)
	b.StackSwitch(nopHandler)
	b.Ops(fullConstructors())
}

func configKind(t *testing.T, err error) ConfigErrorKind {
	t.Helper()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
	return cfgErr.Kind
}

func TestLoadUnknownSelector(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x86", completeFactory)
	_, err := reg.Load("arm")
	if kind := configKind(t, err); kind != ConfigUnknownTarget {
		t.Fatalf("kind = %v, want ConfigUnknownTarget", kind)
	}
}

func TestLoadRejectsBadRegistrations(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
		want    ConfigErrorKind
	}{
		{
			name: "handler without opcode",
			factory: func(b *Builder) {
				completeFactory(b)
				b.Handle(nopHandler)
			},
			want: ConfigHandlerNoOpcode,
		},
		{
			name: "duplicate opcode",
			factory: func(b *Builder) {
				completeFactory(b)
				b.Handle(nopHandler, il.OpNop)
			},
			want: ConfigDuplicateOpcode,
		},
		{
			name: "missing pseudo handler",
			factory: func(b *Builder) {
				b.Handle(nopHandler, il.OpNop)
				b.MethodStart(nopHandler)
				b.Ops(fullConstructors())
			},
			want: ConfigMissingPseudoOp,
		},
		{
			name: "missing constructor",
			factory: func(b *Builder) {
				completeFactory(b)
				ops := fullConstructors()
				ops.StaticField = nil
				b.Ops(ops)
			},
			want: ConfigMissingConstructor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Register("t", tt.factory)
			_, err := reg.Load("t")
			if kind := configKind(t, err); kind != tt.want {
				t.Fatalf("kind = %v, want %v (%v)", kind, tt.want, err)
			}
		})
	}
}

func TestLoadBuildsTarget(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x86", completeFactory)
	target, err := reg.Load("x86")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := target.Handler(il.OpNop); !ok {
		t.Fatalf("nop handler missing")
	}
	if _, ok := target.Handler(il.OpAdd); ok {
		t.Fatalf("unexpected add handler")
	}
	for _, kind := range []il.InstrKind{il.KindMethodStart, il.KindMethodEnd, il.KindStackSwitch} {
		if target.Pseudo(kind) == nil {
			t.Fatalf("pseudo handler %v missing", kind)
		}
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x86", completeFactory)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	reg.Register("x86", completeFactory)
}

func TestStackFrameRotateAndUnderflow(t *testing.T) {
	var f StackFrame
	f.Push(StackItem{Size: 4})
	f.Push(StackItem{Size: 8})
	if err := f.Rotate(2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	top, err := f.Peek(0)
	if err != nil || top.Size != 4 {
		t.Fatalf("top after rotate = %+v, %v", top, err)
	}
	if err := f.Rotate(3); !errors.Is(err, ErrInvalidOp) {
		t.Fatalf("Rotate(3) err = %v, want ErrInvalidOp", err)
	}
	_, _ = f.Pop()
	_, _ = f.Pop()
	if _, err := f.Pop(); !errors.Is(err, ErrInvalidOp) {
		t.Fatalf("Pop on empty stack err = %v", err)
	}
}
