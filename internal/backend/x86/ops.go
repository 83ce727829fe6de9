package x86

import (
	"fmt"
	"strings"

	"kilc/internal/asm"
)

// Comment is a NASM line comment.
type Comment struct {
	asm.OpMeta
	Text string
}

func (*Comment) Kind() asm.OpKind { return asm.OpComment }

func (c *Comment) Render() string { return "; " + c.Text }

// Instr is one machine instruction.
type Instr struct {
	asm.OpMeta
	Mnemonic string
	Operands []string
}

func (*Instr) Kind() asm.OpKind { return asm.OpInstr }

func (i *Instr) Render() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + strings.Join(i.Operands, ", ")
}

func ins(mnemonic string, operands ...string) *Instr {
	return &Instr{Mnemonic: mnemonic, Operands: operands}
}

// Label defines a local code label.
type Label struct {
	asm.OpMeta
	Name string
}

func (*Label) Kind() asm.OpKind { return asm.OpLabel }

func (l *Label) Render() string { return l.Name + ":" }

// TypeTable renders one type-table record in the order of its layout.
type TypeTable struct {
	asm.OpMeta
	Entry asm.TypeTableEntry
}

func (*TypeTable) Kind() asm.OpKind { return asm.OpTypeTable }

func (t *TypeTable) Render() string {
	e := t.Entry
	values := map[string]string{
		"size":           fmt.Sprint(e.HeapSize),
		"id":             fmt.Sprint(e.NumericID),
		"stacksize":      fmt.Sprint(e.StackSize),
		"isvaluetype":    boolValue(e.IsValueType),
		"methodtableptr": e.MethodTablePtr,
		"ispointer":      boolValue(e.IsPointer),
		"thebasetype":    e.BaseTypeID,
		"basetype":       e.BaseTypeID,
		"fieldtableptr":  e.FieldTablePtr,
		"signature":      e.SignatureLabel,
		"idstring":       e.IDLabel,
	}
	var sb strings.Builder
	writeGlobalHeader(&sb, e.TypeID)
	layout := e.Layout
	if len(layout) == 0 {
		layout = defaultTypeLayout
	}
	for _, slot := range layout {
		value, ok := values[strings.ToLower(slot.Name)]
		writeSlot(&sb, slot.Size, value, ok)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

var defaultTypeLayout = []asm.Slot{
	{Name: "Size", Size: 4}, {Name: "Id", Size: 4}, {Name: "StackSize", Size: 4},
	{Name: "IsValueType", Size: 4}, {Name: "MethodTablePtr", Size: 4}, {Name: "IsPointer", Size: 4},
	{Name: "TheBaseType", Size: 4}, {Name: "FieldTablePtr", Size: 4},
	{Name: "Signature", Size: 4}, {Name: "IdString", Size: 4},
}

// MethodTable renders (label, id) records; record slots follow the layout of
// the runtime's method-info struct by position.
type MethodTable struct {
	asm.OpMeta
	Entry asm.MethodTableEntry
}

func (*MethodTable) Kind() asm.OpKind { return asm.OpMethodTable }

func (t *MethodTable) Render() string {
	e := t.Entry
	var sb strings.Builder
	fmt.Fprintf(&sb, "; method table of %s\n", e.TypeName)
	writeGlobalHeader(&sb, e.TypeID+"_MethodTable")
	for _, m := range e.Methods {
		writeRecord(&sb, e.Layout, m.Label, fmt.Sprint(m.IDValue))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FieldTable renders (offset, size, type) records.
type FieldTable struct {
	asm.OpMeta
	Entry asm.FieldTableEntry
}

func (*FieldTable) Kind() asm.OpKind { return asm.OpFieldTable }

func (t *FieldTable) Render() string {
	e := t.Entry
	var sb strings.Builder
	fmt.Fprintf(&sb, "; field table of %s\n", e.TypeName)
	writeGlobalHeader(&sb, e.TypeID+"_FieldTable")
	for _, f := range e.Fields {
		writeRecord(&sb, e.Layout, fmt.Sprint(f.Offset), fmt.Sprint(f.Size), f.TypeID)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// StringLiteral renders a string object: type pointer, length, UTF-16 data.
type StringLiteral struct {
	asm.OpMeta
	Entry asm.StringLiteralEntry
}

func (*StringLiteral) Kind() asm.OpKind { return asm.OpStringLiteral }

func (s *StringLiteral) Render() string {
	e := s.Entry
	var sb strings.Builder
	writeGlobalHeader(&sb, e.Label)
	fmt.Fprintf(&sb, "dd %s\n", e.StringTypeID)
	fmt.Fprintf(&sb, "dd %d\n", e.Length)
	if len(e.Chars) > 0 {
		parts := make([]string, len(e.Chars))
		for i, c := range e.Chars {
			parts[i] = fmt.Sprintf("0x%04X", c)
		}
		fmt.Fprintf(&sb, "dw %s\n", strings.Join(parts, ", "))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// StaticField reserves zeroed global storage.
type StaticField struct {
	asm.OpMeta
	Entry asm.StaticFieldEntry
}

func (*StaticField) Kind() asm.OpKind { return asm.OpStaticField }

func (s *StaticField) Render() string {
	return fmt.Sprintf("GLOBAL %[1]s:data\n%[1]s: times %[2]d db 0", s.Entry.FieldID, s.Entry.Size)
}

// Constructors is the op constructor table of the target.
func Constructors() asm.Constructors {
	return asm.Constructors{
		Comment:       func(text string) asm.Op { return &Comment{Text: text} },
		TypeTable:     func(e asm.TypeTableEntry) asm.Op { return &TypeTable{Entry: e} },
		MethodTable:   func(e asm.MethodTableEntry) asm.Op { return &MethodTable{Entry: e} },
		FieldTable:    func(e asm.FieldTableEntry) asm.Op { return &FieldTable{Entry: e} },
		StringLiteral: func(e asm.StringLiteralEntry) asm.Op { return &StringLiteral{Entry: e} },
		StaticField:   func(e asm.StaticFieldEntry) asm.Op { return &StaticField{Entry: e} },
	}
}

func writeGlobalHeader(sb *strings.Builder, label string) {
	fmt.Fprintf(sb, "GLOBAL %[1]s:data\n%[1]s:\n", label)
}

// writeRecord writes values into the slots of layout by position. Missing
// layout slots default to 4 bytes.
func writeRecord(sb *strings.Builder, layout []asm.Slot, values ...string) {
	for i, v := range values {
		size := 4
		if i < len(layout) {
			size = layout[i].Size
		}
		writeSlot(sb, size, v, true)
	}
}

func writeSlot(sb *strings.Builder, size int, value string, known bool) {
	directive := allocDirective(size)
	if !known || directive == "" {
		fmt.Fprintf(sb, "times %d db 0\n", size)
		return
	}
	fmt.Fprintf(sb, "%s %s\n", directive, value)
}

func allocDirective(size int) string {
	switch size {
	case 1:
		return "db"
	case 2:
		return "dw"
	case 4:
		return "dd"
	case 8:
		return "dq"
	}
	return ""
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (l *Label) Defines() []string { return []string{l.Name} }

func (t *TypeTable) Defines() []string { return []string{t.Entry.TypeID} }

func (t *MethodTable) Defines() []string { return []string{t.Entry.TypeID + "_MethodTable"} }

func (t *FieldTable) Defines() []string { return []string{t.Entry.TypeID + "_FieldTable"} }

func (s *StringLiteral) Defines() []string { return []string{s.Entry.Label} }

func (s *StaticField) Defines() []string { return []string{s.Entry.FieldID} }
