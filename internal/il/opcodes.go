package il

import "fmt"

// Opcode is the operation-kind tag of an IL instruction.
type Opcode uint16

const (
	OpInvalid Opcode = iota
	OpNop
	OpBreak
	OpLdarg
	OpLdarga
	OpStarg
	OpLdloc
	OpLdloca
	OpStloc
	OpLdnull
	OpLdcI4
	OpLdcI8
	OpLdcR4
	OpLdcR8
	OpDup
	OpPop
	OpJmp
	OpCall
	OpCalli
	OpCallvirt
	OpRet
	OpBr
	OpBrfalse
	OpBrtrue
	OpBeq
	OpBge
	OpBgt
	OpBle
	OpBlt
	OpBneUn
	OpSwitch
	OpLdind
	OpStind
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpDivUn
	OpRem
	OpRemUn
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpShrUn
	OpNeg
	OpNot
	OpConvI4
	OpConvI8
	OpConvU4
	OpConvU8
	OpLdobj
	OpStobj
	OpLdstr
	OpNewobj
	OpCastclass
	OpIsinst
	OpThrow
	OpLdfld
	OpLdflda
	OpStfld
	OpLdsfld
	OpLdsflda
	OpStsfld
	OpBox
	OpUnbox
	OpNewarr
	OpLdlen
	OpLdelem
	OpLdelema
	OpStelem
	OpCeq
	OpCgt
	OpClt
	OpLdftn
	OpLdvirtftn
	OpLocalloc
	OpLeave
	OpEndfinally
	OpSizeof
	OpLdtoken

	opcodeCount
)

var opcodeNames = [...]string{
	OpInvalid:    "<invalid>",
	OpNop:        "nop",
	OpBreak:      "break",
	OpLdarg:      "ldarg",
	OpLdarga:     "ldarga",
	OpStarg:      "starg",
	OpLdloc:      "ldloc",
	OpLdloca:     "ldloca",
	OpStloc:      "stloc",
	OpLdnull:     "ldnull",
	OpLdcI4:      "ldc.i4",
	OpLdcI8:      "ldc.i8",
	OpLdcR4:      "ldc.r4",
	OpLdcR8:      "ldc.r8",
	OpDup:        "dup",
	OpPop:        "pop",
	OpJmp:        "jmp",
	OpCall:       "call",
	OpCalli:      "calli",
	OpCallvirt:   "callvirt",
	OpRet:        "ret",
	OpBr:         "br",
	OpBrfalse:    "brfalse",
	OpBrtrue:     "brtrue",
	OpBeq:        "beq",
	OpBge:        "bge",
	OpBgt:        "bgt",
	OpBle:        "ble",
	OpBlt:        "blt",
	OpBneUn:      "bne.un",
	OpSwitch:     "switch",
	OpLdind:      "ldind",
	OpStind:      "stind",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpDivUn:      "div.un",
	OpRem:        "rem",
	OpRemUn:      "rem.un",
	OpAnd:        "and",
	OpOr:         "or",
	OpXor:        "xor",
	OpShl:        "shl",
	OpShr:        "shr",
	OpShrUn:      "shr.un",
	OpNeg:        "neg",
	OpNot:        "not",
	OpConvI4:     "conv.i4",
	OpConvI8:     "conv.i8",
	OpConvU4:     "conv.u4",
	OpConvU8:     "conv.u8",
	OpLdobj:      "ldobj",
	OpStobj:      "stobj",
	OpLdstr:      "ldstr",
	OpNewobj:     "newobj",
	OpCastclass:  "castclass",
	OpIsinst:     "isinst",
	OpThrow:      "throw",
	OpLdfld:      "ldfld",
	OpLdflda:     "ldflda",
	OpStfld:      "stfld",
	OpLdsfld:     "ldsfld",
	OpLdsflda:    "ldsflda",
	OpStsfld:     "stsfld",
	OpBox:        "box",
	OpUnbox:      "unbox",
	OpNewarr:     "newarr",
	OpLdlen:      "ldlen",
	OpLdelem:     "ldelem",
	OpLdelema:    "ldelema",
	OpStelem:     "stelem",
	OpCeq:        "ceq",
	OpCgt:        "cgt",
	OpClt:        "clt",
	OpLdftn:      "ldftn",
	OpLdvirtftn:  "ldvirtftn",
	OpLocalloc:   "localloc",
	OpLeave:      "leave",
	OpEndfinally: "endfinally",
	OpSizeof:     "sizeof",
	OpLdtoken:    "ldtoken",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for i, name := range opcodeNames {
		if Opcode(i) != OpInvalid {
			m[name] = Opcode(i)
		}
	}
	return m
}()

// String returns the IL mnemonic, e.g. "ldc.i4".
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint16(op))
}

// Valid reports whether op names a real instruction.
func (op Opcode) Valid() bool {
	return op > OpInvalid && op < opcodeCount
}

// ParseOpcode resolves an IL mnemonic.
func ParseOpcode(name string) (Opcode, error) {
	if op, ok := opcodeByName[name]; ok {
		return op, nil
	}
	return OpInvalid, fmt.Errorf("unknown IL opcode %q", name)
}

// Opcodes returns every valid opcode in declaration order.
func Opcodes() []Opcode {
	out := make([]Opcode, 0, int(opcodeCount)-1)
	for op := OpInvalid + 1; op < opcodeCount; op++ {
		out = append(out, op)
	}
	return out
}
