package il

// InstrKind separates real IL from the pseudo-instructions the frontend
// inserts around method bodies.
type InstrKind uint8

const (
	KindNormal InstrKind = iota
	KindMethodStart
	KindMethodEnd
	KindStackSwitch
)

func (k InstrKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindMethodStart:
		return "MethodStart"
	case KindMethodEnd:
		return "MethodEnd"
	case KindStackSwitch:
		return "StackSwitch"
	}
	return "unknown"
}

// Operand carries the decoded inline argument of an instruction.
//
//   - Int: constants, local/argument indexes, branch target byte offsets,
//     stack-switch item counts.
//   - Text: string literals (ldstr).
//   - Ref: label of a referenced method or field (call, ldsfld, ...).
type Operand struct {
	Int  int64
	Text string
	Ref  string
}

// Instruction is one IL operation of a block.
type Instruction struct {
	Kind          InstrKind
	Op            Opcode
	Offset        int
	LabelRequired bool
	Operand       Operand
}

// Name is what diagnostics and comments call the instruction.
func (i *Instruction) Name() string {
	if i.Kind != KindNormal {
		return i.Kind.String()
	}
	return i.Op.String()
}

// Block is the instruction block of one method.
type Block struct {
	Method   *MethodDescriptor
	Instrs   []Instruction
	PlugPath string
}

// Plugged reports whether the block is replaced by hand-written code.
func (b *Block) Plugged() bool { return b.PlugPath != "" }
