package scanner

import (
	"encoding/binary"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"

	"kilc/internal/asm"
	"kilc/internal/diag"
	"kilc/internal/il"
)

func methodTableLabel(typeID string) string { return typeID + "_MethodTable" }

func fieldTableLabel(typeID string) string { return typeID + "_FieldTable" }

// recordLayout returns the record layout mirrored from the runtime's own
// support type of kind: its instance fields in offset order.
func (s *Session) recordLayout(kind il.SpecialKind) []asm.Slot {
	if layout, ok := s.layouts[kind]; ok {
		return layout
	}
	var layout []asm.Slot
	for _, f := range s.specials.Get(kind).InstanceFields() {
		layout = append(layout, asm.Slot{Name: f.Name, Size: f.Type.SlotSize()})
	}
	s.layouts[kind] = layout
	return layout
}

func (s *Session) outOfRange(u *il.Unit, t *il.TypeDescriptor, what string, err error) Status {
	diag.ReportErrorf(s.reporter, diag.ScanValueOutOfRange, "%s of %s: %v", what, t.ID, err).
		InUnit(u.ID).
		Emit()
	return StatusFail
}

// scanStaticFields reserves zeroed storage for every static field of t. The
// width is the stack size of the field's type.
func (s *Session) scanStaticFields(u *il.Unit, t *il.TypeDescriptor, block *asm.Block) Status {
	for _, f := range t.Fields {
		if !f.IsStatic {
			continue
		}
		size := 0
		if f.Type != nil {
			size = f.Type.StackSize
		}
		block.Append(s.ops.StaticField(asm.StaticFieldEntry{FieldID: f.ID, Size: size}))
	}
	return StatusOK
}

// scanType appends the type-table record of t and assigns its numeric id.
func (s *Session) scanType(u *il.Unit, t *il.TypeDescriptor, block *asm.Block) Status {
	if _, err := safecast.Conv[uint32](t.HeapSize); err != nil {
		return s.outOfRange(u, t, "heap size", err)
	}
	if _, err := safecast.Conv[uint32](t.StackSize); err != nil {
		return s.outOfRange(u, t, "stack size", err)
	}

	id := s.nextID
	s.nextID++
	s.numericIDs[t] = id

	baseID := asm.Sentinel
	if base := t.RecordBase(); base != nil {
		baseID = base.ID
		if s.isExternal(u, base) {
			block.AddExternalLabel(baseID)
		}
	}

	name := t.FullName
	if name == "" {
		name = t.ID
	}
	entry := asm.TypeTableEntry{
		TypeID:         t.ID,
		HeapSize:       t.HeapSize,
		NumericID:      id,
		StackSize:      t.StackSize,
		IsValueType:    t.IsValueType,
		MethodTablePtr: methodTableLabel(t.ID),
		IsPointer:      t.IsPointer,
		BaseTypeID:     baseID,
		FieldTablePtr:  fieldTableLabel(t.ID),
		SignatureLabel: u.AddStringLiteral(name),
		IDLabel:        u.AddStringLiteral(t.ID),
		Layout:         s.recordLayout(il.SpecialTypeInfo),
	}
	block.Append(s.ops.TypeTable(entry))

	// the tables and literals live in other blocks of the unit
	block.AddExternalLabel(entry.MethodTablePtr)
	block.AddExternalLabel(entry.FieldTablePtr)
	block.AddExternalLabel(entry.SignatureLabel)
	block.AddExternalLabel(entry.IDLabel)
	return StatusOK
}

// parentLink returns the label of the parent type's table and whether it is
// external, or the sentinel when t has no recorded base.
func (s *Session) parentLink(u *il.Unit, t *il.TypeDescriptor, label func(string) string) (string, bool) {
	base := t.RecordBase()
	if base == nil {
		return asm.Sentinel, false
	}
	return label(base.ID), s.isExternal(u, base)
}

func derivesFrom(t *il.TypeDescriptor, kinds ...il.SpecialKind) bool {
	if t.Base == nil {
		return false
	}
	for _, k := range kinds {
		if t.Base.Special == k {
			return true
		}
	}
	return false
}

// scanMethods appends the method table of t: instance methods with a body,
// then the link to the parent's table.
func (s *Session) scanMethods(u *il.Unit, t *il.TypeDescriptor, block *asm.Block) Status {
	entry := asm.MethodTableEntry{
		TypeID:   t.ID,
		TypeName: t.FullName,
		Layout:   s.recordLayout(il.SpecialMethodInfo),
	}
	// arrays have no instance method table of their own
	if !derivesFrom(t, il.SpecialArray) {
		for _, m := range t.Methods {
			if m.IsStatic || m.IsAbstract {
				continue
			}
			block.AddExternalLabel(m.ID)
			entry.Methods = append(entry.Methods, asm.MethodRecord{Label: m.ID, IDValue: m.IDValue})
		}
	}

	parent, external := s.parentLink(u, t, methodTableLabel)
	if external {
		block.AddExternalLabel(parent)
	}
	entry.Methods = append(entry.Methods, asm.MethodRecord{Label: parent, IDValue: 0})

	block.Append(s.ops.MethodTable(entry))
	return StatusOK
}

// scanFields appends the field table of t: (offset, size, type) per instance
// field, then (0, 0, parent table).
func (s *Session) scanFields(u *il.Unit, t *il.TypeDescriptor, block *asm.Block) Status {
	entry := asm.FieldTableEntry{
		TypeID:   t.ID,
		TypeName: t.FullName,
		Layout:   s.recordLayout(il.SpecialFieldInfo),
	}
	status := StatusOK
	if !derivesFrom(t, il.SpecialArray, il.SpecialMulticastDelegate) {
		for _, f := range t.Fields {
			if f.IsStatic {
				continue
			}
			if f.Type == nil {
				diag.ReportErrorf(s.reporter, diag.LoadUnknownReference, "field %s of %s has no type", f.Name, t.ID).
					InUnit(u.ID).
					Emit()
				status = StatusFail
				continue
			}
			block.AddExternalLabel(f.Type.ID)
			entry.Fields = append(entry.Fields, asm.FieldRecord{
				Offset: f.Offset,
				Size:   f.Type.SlotSize(),
				TypeID: f.Type.ID,
			})
		}
	}

	parent, external := s.parentLink(u, t, fieldTableLabel)
	if external {
		block.AddExternalLabel(parent)
	}
	entry.Fields = append(entry.Fields, asm.FieldRecord{Offset: 0, Size: 0, TypeID: parent})

	block.Append(s.ops.FieldTable(entry))
	return status
}

// scanStringLiterals fills the literal pool of u. Every literal record points
// at the string type, which is resolved at link time.
func (s *Session) scanStringLiterals(u *il.Unit, block *asm.Block) Status {
	literals := u.StringLiterals()
	if len(literals) == 0 {
		return StatusOK
	}
	stringType := asm.Sentinel
	if st := s.specials.Get(il.SpecialString); st != nil {
		stringType = st.ID
		block.AddExternalLabel(stringType)
	}

	status := StatusOK
	for _, lit := range literals {
		chars, err := utf16Units(lit.Text)
		if err != nil {
			diag.ReportErrorf(s.reporter, diag.ScanValueOutOfRange, "literal %s: %v", lit.Label, err).
				InUnit(u.ID).
				Emit()
			status = StatusFail
			continue
		}
		n, err := safecast.Conv[uint32](len(chars))
		if err != nil {
			diag.ReportErrorf(s.reporter, diag.ScanValueOutOfRange, "length of literal %s: %v", lit.Label, err).
				InUnit(u.ID).
				Emit()
			status = StatusFail
			continue
		}
		block.Append(s.ops.StringLiteral(asm.StringLiteralEntry{
			Label:        lit.Label,
			StringTypeID: stringType,
			Length:       n,
			Chars:        chars,
		}))
	}
	return status
}

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// utf16Units returns the UTF-16 code units of text, the in-memory layout of
// the runtime string type. Invalid UTF-8 becomes U+FFFD.
func utf16Units(text string) ([]uint16, error) {
	raw, err := utf16LE.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, err
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return units, nil
}

// scanPlugged emits the placeholder block the linker replaces with the
// hand-written code at PlugPath.
func (s *Session) scanPlugged(u *il.Unit, b *il.Block) Status {
	u.Output.Add(&asm.Block{
		PlugPath: b.PlugPath,
		Origin:   b.Method,
		Priority: b.Method.Priority,
	})
	return StatusOK
}
