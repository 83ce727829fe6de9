package asm

import "testing"

type fakeOrigin string

func (o fakeOrigin) MethodLabel() string     { return string(o) }
func (o fakeOrigin) MethodSignature() string { return "sig " + string(o) }

func TestExternalLabelsDeduplicateAndSkipSentinel(t *testing.T) {
	var b Block
	b.AddExternalLabel("T_MethodTable")
	b.AddExternalLabel(Sentinel)
	b.AddExternalLabel("T_MethodTable")
	b.AddExternalLabel("U")

	got := b.ExternalLabels()
	if len(got) != 2 || got[0] != "T_MethodTable" || got[1] != "U" {
		t.Fatalf("ExternalLabels() = %v", got)
	}
	if b.HasExternalLabel(Sentinel) {
		t.Fatalf("sentinel must never be external")
	}
}

func TestGenerateILOpLabel(t *testing.T) {
	b := Block{Origin: fakeOrigin("method_Main")}
	if got := b.GenerateILOpLabel(3, ""); got != "method_Main.IL_3_" {
		t.Fatalf("label = %q", got)
	}
}

func TestLibrarySortedByPriority(t *testing.T) {
	var lib Library
	fields := lib.NewBlock(PriorityFieldTables)
	code := lib.NewBlock(0)
	strs := lib.NewBlock(PriorityStringLiterals)
	types := lib.NewBlock(PriorityTypesTable)

	sorted := lib.Sorted()
	want := []*Block{strs, types, fields, code}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("position %d: got priority %d, want %d", i, sorted[i].Priority, want[i].Priority)
		}
	}
}

func TestConstructorsMissing(t *testing.T) {
	c := Constructors{Comment: func(string) Op { return nil }}
	missing := c.Missing()
	if len(missing) != 5 || missing[0] != OpTypeTable {
		t.Fatalf("Missing() = %v", missing)
	}
}
