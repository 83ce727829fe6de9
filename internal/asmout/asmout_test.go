package asmout

import (
	"context"
	"os"
	"strings"
	"testing"

	"kilc/internal/backend"
	"kilc/internal/backend/x86"
	"kilc/internal/il"
	"kilc/internal/scanner"
)

func scanned(t *testing.T) (*il.Unit, *il.Unit) {
	t.Helper()
	reg := backend.NewRegistry()
	x86.Register(reg)
	target, err := reg.Load(x86.Selector)
	if err != nil {
		t.Fatal(err)
	}

	lib := il.NewUnit("Lib")
	base := lib.AddType(&il.TypeDescriptor{ID: "Lib_Base", FullName: "Lib.Base", HeapSize: 4, StackSize: 4})

	app := il.NewUnit("App")
	app.AddDependency(lib)
	prog := app.AddType(&il.TypeDescriptor{ID: "App_Program", FullName: "App.Program", HeapSize: 4, StackSize: 4, Base: base})
	main := prog.AddMethod(&il.MethodDescriptor{ID: "App_Program_Main", Signature: "void App.Program.Main()", IsStatic: true})
	halt := prog.AddMethod(&il.MethodDescriptor{ID: "App_Program_Halt", IsStatic: true})
	if err := app.AddBlock(&il.Block{Method: main, Instrs: []il.Instruction{
		{Kind: il.KindMethodStart},
		{Op: il.OpLdcI4, Offset: 0, Operand: il.Operand{Int: 1}},
		{Op: il.OpBrtrue, Offset: 1, Operand: il.Operand{Int: 3}},
		{Op: il.OpNop, Offset: 3, LabelRequired: true},
		{Op: il.OpRet, Offset: 4},
		{Kind: il.KindMethodEnd, Offset: 5},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := app.AddBlock(&il.Block{Method: halt, PlugPath: "plugs/halt.asm"}); err != nil {
		t.Fatal(err)
	}

	s := scanner.NewSession(target, scanner.Options{Specials: &il.Specials{}})
	if st := s.Scan(app); st != scanner.StatusOK {
		t.Fatalf("scan status = %s", st)
	}
	return lib, app
}

func TestRenderUnit(t *testing.T) {
	_, app := scanned(t)
	out := Render(app)

	for _, want := range []string{
		"extern Lib_Base\n",
		"extern Lib_Base_MethodTable\n",
		"SECTION .data\n",
		"SECTION .text\n",
		"GLOBAL App_Program:data\n",
		"GLOBAL App_Program_Main:function\nApp_Program_Main:\n",
		"App_Program_Main.IL_3_:\n\tnop\n",
		"\tjne App_Program_Main.IL_3_\n",
		"; plug App_Program_Halt <- plugs/halt.asm\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	// labels defined in the unit itself are not extern
	for _, notWant := range []string{"extern App_Program_MethodTable", "extern App_Program_Main\n"} {
		if strings.Contains(out, notWant) {
			t.Errorf("output contains %q", notWant)
		}
	}
	if strings.Index(out, "SECTION .data") > strings.Index(out, "SECTION .text") {
		t.Error("data must precede code")
	}
	if t.Failed() {
		t.Log(out)
	}
}

func TestWriteAll(t *testing.T) {
	lib, app := scanned(t)
	dir := t.TempDir()

	paths, err := WriteAll(context.Background(), dir, []*il.Unit{lib, app})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(paths) != 2 || !strings.HasSuffix(paths[1], "App.asm") {
		t.Fatalf("paths = %v", paths)
	}
	data, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Render(app) {
		t.Fatal("file content differs from Render")
	}
}

func TestWriteAllKeepsCollidingUnitsApart(t *testing.T) {
	a, b, c := il.NewUnit("a/b"), il.NewUnit("a_b"), il.NewUnit("a_b_2")
	dir := t.TempDir()
	paths, err := WriteAll(context.Background(), dir, []*il.Unit{a, b, c})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	seen := map[string]bool{}
	for i, p := range paths {
		if seen[p] {
			t.Fatalf("path %s written twice: %v", p, paths)
		}
		seen[p] = true
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		u := []*il.Unit{a, b, c}[i]
		if string(data) != Render(u) {
			t.Fatalf("%s holds the wrong unit", p)
		}
	}
	want := []string{"a_b.asm", "a_b_2.asm", "a_b_2_2.asm"}
	for i, name := range FileNames([]*il.Unit{a, b, c}) {
		if name != want[i] {
			t.Fatalf("names[%d] = %s, want %s", i, name, want[i])
		}
	}
}

func TestWriteAllHonoursCancel(t *testing.T) {
	_, app := scanned(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := WriteAll(ctx, t.TempDir(), []*il.Unit{app}); err == nil {
		t.Fatal("expected context error")
	}
}
