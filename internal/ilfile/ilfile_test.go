package ilfile

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"kilc/internal/il"
)

func TestLoadTOMLFixture(t *testing.T) {
	prog, err := Load(filepath.Join("testdata", "inherit.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if prog.Root == nil || prog.Root.ID != "App" {
		t.Fatalf("root = %+v", prog.Root)
	}
	rt := prog.Unit("Runtime")
	if len(prog.Root.Dependencies) != 1 || prog.Root.Dependencies[0] != rt {
		t.Fatal("App does not depend on Runtime")
	}

	program := prog.Root.Types[0]
	if program.Base != rt.Types[1] {
		t.Fatalf("base of App_Program = %+v", program.Base)
	}
	if f := program.Fields[0]; !f.IsStatic || f.Type != rt.Types[0] || f.Declaring != program {
		t.Fatalf("field = %+v", f)
	}
	if rt.Types[2].Special != il.SpecialString {
		t.Fatalf("special = %s", rt.Types[2].Special)
	}

	main, ok := prog.Root.BlockFor(program.Methods[0])
	if !ok {
		t.Fatal("Main has no block")
	}
	if len(main.Instrs) != 5 || main.Instrs[0].Kind != il.KindMethodStart || main.Instrs[1].Op != il.OpLdstr {
		t.Fatalf("instructions = %+v", main.Instrs)
	}
	if ret := main.Instrs[3]; ret.Op != il.OpRet || !ret.LabelRequired || ret.Offset != 6 {
		t.Fatalf("ret = %+v", ret)
	}
	halt, _ := prog.Root.BlockFor(program.Methods[1])
	if !halt.Plugged() {
		t.Fatal("Halt is not plugged")
	}
}

func TestPackEncodingLinks(t *testing.T) {
	src := &File{Root: "Lib", Units: []Unit{{
		ID:    "Lib",
		Types: []Type{{ID: "Lib_T", HeapSize: 4, StackSize: 4}},
	}}}
	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	file, err := Decode(&buf, FormatPack)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Schema != SchemaVersion {
		t.Fatalf("schema = %d", file.Schema)
	}
	linked, err := Link(file)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if linked.Root.ID != "Lib" || linked.Root.Types[0].HeapSize != 4 {
		t.Fatal("decoded graph lost data")
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown dependency", `
[[units]]
id = "A"
dependencies = ["B"]
`, ErrUnknownReference},
		{"unknown base", `
[[units]]
id = "A"
  [[units.types]]
  id = "A_T"
  base = "Nope"
`, ErrUnknownReference},
		{"duplicate type", `
[[units]]
id = "A"
  [[units.types]]
  id = "T"
[[units]]
id = "B"
  [[units.types]]
  id = "T"
`, ErrDuplicate},
		{"block of unknown method", `
[[units]]
id = "A"
  [[units.blocks]]
  method = "Missing"
`, ErrUnknownReference},
		{"newer schema", `
schema = 99
[[units]]
id = "A"
`, ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Decode(strings.NewReader(tt.src), FormatTOML)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, err := Link(file); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnknownOpcodeFailsLink(t *testing.T) {
	file, err := Decode(strings.NewReader(`
[[units]]
id = "A"
  [[units.types]]
  id = "A_T"
    [[units.types.methods]]
    id = "A_T_Run"
  [[units.blocks]]
  method = "A_T_Run"
    [[units.blocks.instrs]]
    op = "frobnicate"
`), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Link(file); err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("err = %v", err)
	}
}
