package il

import "sort"

// SpecialKind marks the runtime support types the metadata tables depend on.
type SpecialKind uint8

const (
	SpecialNone SpecialKind = iota
	// SpecialTypeInfo is the runtime's type-descriptor type; its instance
	// fields define the type-table record layout.
	SpecialTypeInfo
	SpecialMethodInfo
	SpecialFieldInfo
	SpecialString
	// SpecialArray is the base of all array types; arrays have no method table.
	SpecialArray
	SpecialMulticastDelegate
)

var specialNames = map[SpecialKind]string{
	SpecialNone:              "none",
	SpecialTypeInfo:          "type-info",
	SpecialMethodInfo:        "method-info",
	SpecialFieldInfo:         "field-info",
	SpecialString:            "string",
	SpecialArray:             "array",
	SpecialMulticastDelegate: "multicast-delegate",
}

func (k SpecialKind) String() string {
	if s, ok := specialNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseSpecialKind is the inverse of String; "" means SpecialNone.
func ParseSpecialKind(s string) (SpecialKind, bool) {
	if s == "" {
		return SpecialNone, true
	}
	for k, name := range specialNames {
		if name == s {
			return k, true
		}
	}
	return SpecialNone, false
}

// TypeDescriptor describes one type. ID is unique across the whole program
// graph, not only within the owning unit.
type TypeDescriptor struct {
	ID          string
	FullName    string
	HeapSize    int
	StackSize   int
	IsValueType bool
	IsPointer   bool
	// Opaque types come from outside the compiled graph (foreign/unsupported)
	// and are never recorded as a base type.
	Opaque  bool
	Base    *TypeDescriptor
	Special SpecialKind
	Fields  []*FieldDescriptor
	Methods []*MethodDescriptor
}

// SlotSize is the width a value of this type occupies inside another record:
// the full heap size for value types, a stack slot otherwise.
func (t *TypeDescriptor) SlotSize() int {
	if t == nil {
		return 0
	}
	if t.IsValueType {
		return t.HeapSize
	}
	return t.StackSize
}

// InstanceFields returns the non-static fields ordered by byte offset.
func (t *TypeDescriptor) InstanceFields() []*FieldDescriptor {
	if t == nil {
		return nil
	}
	out := make([]*FieldDescriptor, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.IsStatic {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// RecordBase returns the base type as it should appear in metadata: nil when
// there is none or when it is opaque.
func (t *TypeDescriptor) RecordBase() *TypeDescriptor {
	if t == nil || t.Base == nil || t.Base.Opaque {
		return nil
	}
	return t.Base
}

// AddField attaches f to t and sets the back-reference.
func (t *TypeDescriptor) AddField(f *FieldDescriptor) *FieldDescriptor {
	f.Declaring = t
	t.Fields = append(t.Fields, f)
	return f
}

// AddMethod attaches m to t and sets the back-reference.
func (t *TypeDescriptor) AddMethod(m *MethodDescriptor) *MethodDescriptor {
	m.Declaring = t
	t.Methods = append(t.Methods, m)
	return m
}

// MethodDescriptor describes one method. ID doubles as its assembly label.
type MethodDescriptor struct {
	ID         string
	Signature  string
	IDValue    int
	IsStatic   bool
	IsAbstract bool
	// Priority places the method's code block relative to other blocks.
	Priority  int64
	Declaring *TypeDescriptor
}

// MethodLabel implements asm.Origin.
func (m *MethodDescriptor) MethodLabel() string { return m.ID }

// MethodSignature implements asm.Origin.
func (m *MethodDescriptor) MethodSignature() string {
	if m.Signature != "" {
		return m.Signature
	}
	return m.ID
}

// FieldDescriptor describes one field. For static fields ID names the
// global storage.
type FieldDescriptor struct {
	ID        string
	Name      string
	IDValue   int
	IsStatic  bool
	Offset    int
	Type      *TypeDescriptor
	Declaring *TypeDescriptor
}
