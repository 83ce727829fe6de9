package scanner

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"kilc/internal/asm"
	"kilc/internal/diag"
	"kilc/internal/il"
)

func TestUnknownOpcodeIsPartialFailure(t *testing.T) {
	s, bag := newSession(t)
	u := il.NewUnit("Lib")
	m := addBlock(t, u, "Lib_Main", il.Instruction{Op: il.OpLdfld, Offset: 0x1A})

	if got := s.Scan(u); got != StatusPartialFailure {
		t.Fatalf("status = %s, want partial-failure", got)
	}
	errs := errorsOf(bag)
	if len(errs) != 1 {
		t.Fatalf("diagnostics = %+v", errs)
	}
	d := errs[0]
	if d.Code != diag.ScanOpNotFound || d.Method != m.MethodSignature() || d.Offset != 0x1A {
		t.Fatalf("diagnostic = %+v", d)
	}
	if !strings.Contains(d.Message, "ldfld") {
		t.Fatalf("message %q does not name the opcode", d.Message)
	}
	if got, _ := s.Status(u); got != StatusPartialFailure {
		t.Fatalf("recorded status = %s", got)
	}
}

func TestFailurePolicy(t *testing.T) {
	tests := []struct {
		name    string
		fail    il.Opcode
		want    Status
		code    diag.Code
		trailer bool // the nop after the failing instruction is translated
	}{
		{"unsupported", il.OpLdcR4, StatusPartialFailure, diag.ScanOpUnsupported, true},
		{"plain error", il.OpThrow, StatusFail, diag.ScanOpFailure, false},
		{"panic", il.OpBreak, StatusFail, diag.ScanOpFailure, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, bag := newSession(t)
			u := il.NewUnit("Lib")
			m := addBlock(t, u, "Lib_Main",
				il.Instruction{Op: il.OpNop, Offset: 0},
				il.Instruction{Op: tt.fail, Offset: 1},
				il.Instruction{Op: il.OpNop, Offset: 2},
			)

			if got := s.Scan(u); got != tt.want {
				t.Fatalf("status = %s, want %s", got, tt.want)
			}
			errs := errorsOf(bag)
			if len(errs) != 1 || errs[0].Code != tt.code || errs[0].Offset != 1 {
				t.Fatalf("diagnostics = %+v", errs)
			}

			// the block is emitted either way
			b := codeBlock(t, u, m)
			nops := 0
			for _, op := range b.Ops {
				if op.Kind() == asm.OpInstr && op.Render() == "nop" {
					nops++
				}
			}
			want := 1
			if tt.trailer {
				want = 2
			}
			if nops != want {
				t.Fatalf("translated %d nops, want %d", nops, want)
			}
		})
	}
}

func TestWorstBlockWins(t *testing.T) {
	s, _ := newSession(t)
	u := il.NewUnit("Lib")
	addBlock(t, u, "Lib_A", il.Instruction{Op: il.OpThrow})
	addBlock(t, u, "Lib_B", il.Instruction{Op: il.OpLdfld})
	c := addBlock(t, u, "Lib_C", il.Instruction{Op: il.OpNop})

	if got := s.Scan(u); got != StatusFail {
		t.Fatalf("status = %s, want fail", got)
	}
	// later blocks are still attempted
	if codeBlock(t, u, c).Len() != 2 {
		t.Fatal("block after the failure was not translated")
	}
}

func TestCommentsAndBranchTargets(t *testing.T) {
	s, _ := newSession(t)
	u := il.NewUnit("Lib")
	m := addBlock(t, u, "Lib_Main",
		il.Instruction{Kind: il.KindMethodStart},
		il.Instruction{Op: il.OpNop, Offset: 0x00},
		il.Instruction{Op: il.OpNop, Offset: 0x01, LabelRequired: true},
		il.Instruction{Kind: il.KindMethodEnd, Offset: 0x02},
	)

	s.Scan(u)

	b := codeBlock(t, u, m)
	var rendered []string
	for _, op := range b.Ops {
		rendered = append(rendered, op.Render())
	}
	want := []string{
		"Lib_Main.IL_0_  --  MethodStart -- Offset: 00", "enter",
		"Lib_Main.IL_1_  --  nop -- Offset: 00", "nop",
		"Lib_Main.IL_2_  --  nop -- Offset: 01", "nop",
		"Lib_Main.IL_3_  --  MethodEnd -- Offset: 02", "leave",
	}
	if strings.Join(rendered, "\n") != strings.Join(want, "\n") {
		t.Fatalf("ops:\n%s", strings.Join(rendered, "\n"))
	}
	for i, op := range b.Ops {
		meta := op.Meta()
		tagged := i == 5
		if meta.RequiresILLabel != tagged {
			t.Fatalf("op %d RequiresILLabel = %v", i, meta.RequiresILLabel)
		}
		if tagged && meta.ILPosition != 2 {
			t.Fatalf("ILPosition = %d, want 2", meta.ILPosition)
		}
	}
}

// chain builds units U0 <- U1 <- ... where every unit depends on the previous
// one, with counts[i] types in unit i.
func chain(counts []int) (*il.Unit, []*il.Unit) {
	var units []*il.Unit
	for i, n := range counts {
		u := il.NewUnit("U" + string(rune('A'+i)))
		if i > 0 {
			u.AddDependency(units[i-1])
		}
		for j := 0; j < n; j++ {
			u.AddType(&il.TypeDescriptor{ID: u.ID + "_T" + string(rune('a'+j)), HeapSize: 4, StackSize: 4})
		}
		units = append(units, u)
	}
	return units[len(units)-1], units
}

func TestNumericIDsAreDeterministic(t *testing.T) {
	target := testTarget(t)
	rapid.Check(t, func(rt *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 6), 1, 6).Draw(rt, "counts")

		ids := func() []int {
			root, units := chain(counts)
			s := NewSession(target, Options{Specials: &il.Specials{}})
			s.Scan(root)
			var out []int
			for _, u := range units {
				for _, typ := range u.Types {
					id, ok := s.NumericID(typ)
					if !ok {
						rt.Fatalf("type %s has no id", typ.ID)
					}
					out = append(out, id)
				}
			}
			return out
		}

		first, second := ids(), ids()
		for i := range first {
			if first[i] != i+1 {
				rt.Fatalf("ids = %v, want 1..%d in dependency order", first, len(first))
			}
			if first[i] != second[i] {
				rt.Fatalf("runs differ: %v vs %v", first, second)
			}
		}
	})
}

func TestRescanAnyUnitIsNoop(t *testing.T) {
	target := testTarget(t)
	rapid.Check(t, func(rt *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 4), 1, 5).Draw(rt, "counts")
		root, units := chain(counts)
		s := NewSession(target, Options{Specials: &il.Specials{}})
		s.Scan(root)

		before := make([]int, len(units))
		for i, u := range units {
			before[i] = len(u.Output.Blocks)
		}
		again := units[rapid.IntRange(0, len(units)-1).Draw(rt, "again")]
		s.Scan(again)
		s.Scan(root)
		for i, u := range units {
			if len(u.Output.Blocks) != before[i] {
				rt.Fatalf("unit %s grew from %d to %d blocks", u.ID, before[i], len(u.Output.Blocks))
			}
		}
		if len(s.Units()) != len(units) {
			rt.Fatalf("scanned %d units, want %d", len(s.Units()), len(units))
		}
	})
}
