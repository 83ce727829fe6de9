package asm

// Constructors is the table from op kind to the target's constructor for it.
// Instruction and label ops are built by the target's own handlers and need
// no entry here.
type Constructors struct {
	Comment       func(text string) Op
	TypeTable     func(TypeTableEntry) Op
	MethodTable   func(MethodTableEntry) Op
	FieldTable    func(FieldTableEntry) Op
	StringLiteral func(StringLiteralEntry) Op
	StaticField   func(StaticFieldEntry) Op
}

// Missing lists the kinds without a constructor.
func (c Constructors) Missing() []OpKind {
	var out []OpKind
	if c.Comment == nil {
		out = append(out, OpComment)
	}
	if c.TypeTable == nil {
		out = append(out, OpTypeTable)
	}
	if c.MethodTable == nil {
		out = append(out, OpMethodTable)
	}
	if c.FieldTable == nil {
		out = append(out, OpFieldTable)
	}
	if c.StringLiteral == nil {
		out = append(out, OpStringLiteral)
	}
	if c.StaticField == nil {
		out = append(out, OpStaticField)
	}
	return out
}
