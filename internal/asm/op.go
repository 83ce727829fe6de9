package asm

// OpKind is the closed set of output operation kinds a target must be able
// to construct.
type OpKind uint8

const (
	OpComment OpKind = iota + 1
	OpInstr
	OpLabel
	OpTypeTable
	OpMethodTable
	OpFieldTable
	OpStringLiteral
	OpStaticField
)

func (k OpKind) String() string {
	switch k {
	case OpComment:
		return "comment"
	case OpInstr:
		return "instr"
	case OpLabel:
		return "label"
	case OpTypeTable:
		return "type-table"
	case OpMethodTable:
		return "method-table"
	case OpFieldTable:
		return "field-table"
	case OpStringLiteral:
		return "string-literal"
	case OpStaticField:
		return "static-field"
	}
	return "unknown"
}

// OpMeta is the target independent part of every op: whether an IL branch
// may land on it.
type OpMeta struct {
	ILPosition      int
	RequiresILLabel bool
}

// Meta lets types embedding OpMeta satisfy Op.
func (m *OpMeta) Meta() *OpMeta { return m }

// Op is one already-typed output operation. Ops are opaque to the scanner:
// only the target knows how to render them.
type Op interface {
	Kind() OpKind
	Meta() *OpMeta
	// Render returns the assembly text, possibly several lines.
	Render() string
}

// Definer is implemented by ops that define global labels. Emitters use it to
// tell labels defined in the same output apart from real externals.
type Definer interface {
	Defines() []string
}
