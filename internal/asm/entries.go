package asm

// Sentinel is written wherever a table slot has no target (no base type,
// no parent table).
const Sentinel = "0"

// Slot is one field of a runtime record layout, in offset order.
type Slot struct {
	Name string
	Size int
}

// TypeTableEntry is the type-table record of one type. Its in-memory layout
// follows Layout, derived from the runtime's own type-descriptor type.
type TypeTableEntry struct {
	TypeID         string
	HeapSize       int
	NumericID      int
	StackSize      int
	IsValueType    bool
	MethodTablePtr string
	IsPointer      bool
	BaseTypeID     string
	FieldTablePtr  string
	SignatureLabel string
	IDLabel        string
	Layout         []Slot
}

type MethodRecord struct {
	Label   string
	IDValue int
}

// MethodTableEntry lists a type's instance methods; the final record links
// to the parent type's table (or Sentinel).
type MethodTableEntry struct {
	TypeID   string
	TypeName string
	Methods  []MethodRecord
	Layout   []Slot
}

type FieldRecord struct {
	Offset int
	Size   int
	TypeID string
}

// FieldTableEntry lists a type's instance fields; the final record is
// (0, 0, parent field table).
type FieldTableEntry struct {
	TypeID   string
	TypeName string
	Fields   []FieldRecord
	Layout   []Slot
}

// StringLiteralEntry is one pooled string object: header pointing at the
// string type, length in UTF-16 code units, then the code units.
type StringLiteralEntry struct {
	Label        string
	StringTypeID string
	Length       uint32
	Chars        []uint16
}

// StaticFieldEntry reserves zero-initialised global storage for a static field.
type StaticFieldEntry struct {
	FieldID string
	Size    int
}
