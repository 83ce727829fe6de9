package x86

import (
	"fmt"

	"kilc/internal/backend"
	"kilc/internal/il"
)

const wordSize = 4

var word = backend.StackItem{Size: wordSize}

// localOffset is the frame offset of local variable idx, below ebp.
func localOffset(idx int64) string { return fmt.Sprintf("[ebp-%d]", (idx+1)*wordSize) }

// argOffset is the frame offset of argument idx, above the return address.
func argOffset(idx int64) string { return fmt.Sprintf("[ebp+%d]", 8+idx*wordSize) }

// endLabel is where ret jumps to reach the epilogue.
func endLabel(st *backend.State) string {
	if st.Method == nil {
		return "method.End"
	}
	return st.Method.ID + ".End"
}

func popWord(st *backend.State, what string) error {
	return popWords(st, what, 1)
}

// popWords pops n word-sized integer items. Nothing is popped unless all n
// qualify, so an unsupported operand leaves the frame as it was.
func popWords(st *backend.State, what string, n int) error {
	for i := 0; i < n; i++ {
		item, err := st.Frame.Peek(i)
		if err != nil {
			return err
		}
		if item.IsFloat {
			return backend.Unsupportedf("%s: floating point operand", what)
		}
		if item.Size != wordSize {
			return backend.Unsupportedf("%s: %d-byte operand", what, item.Size)
		}
	}
	for i := 0; i < n; i++ {
		if _, err := st.Frame.Pop(); err != nil {
			return err
		}
	}
	return nil
}

func branchTarget(st *backend.State, in *il.Instruction) (string, error) {
	pos, ok := st.PositionOfOffset(int(in.Operand.Int))
	if !ok {
		return "", backend.Invalidf("branch target IL_%04X not in block", in.Operand.Int)
	}
	return st.Label(pos), nil
}

func methodStart(st *backend.State, in *il.Instruction) error {
	st.Emit(ins("push", "ebp"), ins("mov", "ebp", "esp"))
	if n := in.Operand.Int; n > 0 {
		st.Emit(ins("sub", "esp", fmt.Sprint(n*wordSize)))
	}
	return nil
}

func methodEnd(st *backend.State, _ *il.Instruction) error {
	st.Emit(&Label{Name: endLabel(st)}, ins("mov", "esp", "ebp"), ins("pop", "ebp"), ins("ret"))
	return nil
}

// stackSwitch rotates the top Operand.Int items; only word-sized pairs have a
// machine rendering.
func stackSwitch(st *backend.State, in *il.Instruction) error {
	n := int(in.Operand.Int)
	if n == 0 {
		n = 2
	}
	if n != 2 {
		return backend.Unsupportedf("stack switch of %d items", n)
	}
	for depth := 0; depth < 2; depth++ {
		item, err := st.Frame.Peek(depth)
		if err != nil {
			return err
		}
		if item.Size != wordSize {
			return backend.Unsupportedf("stack switch of %d-byte item", item.Size)
		}
	}
	if err := st.Frame.Rotate(n); err != nil {
		return err
	}
	st.Emit(ins("pop", "eax"), ins("pop", "edx"), ins("push", "eax"), ins("push", "edx"))
	return nil
}

func nop(st *backend.State, _ *il.Instruction) error {
	st.Emit(ins("nop"))
	return nil
}

func ldcI4(st *backend.State, in *il.Instruction) error {
	st.Emit(ins("push", fmt.Sprintf("dword %d", int32(in.Operand.Int))))
	st.Frame.Push(word)
	return nil
}

// ldcI8 pushes the high half first so the low half ends on top.
func ldcI8(st *backend.State, in *il.Instruction) error {
	v := uint64(in.Operand.Int)
	st.Emit(
		ins("push", fmt.Sprintf("dword 0x%08X", uint32(v>>32))),
		ins("push", fmt.Sprintf("dword 0x%08X", uint32(v))),
	)
	st.Frame.Push(backend.StackItem{Size: 2 * wordSize})
	return nil
}

func ldnull(st *backend.State, _ *il.Instruction) error {
	st.Emit(ins("push", "dword 0"))
	st.Frame.Push(word)
	return nil
}

func floatConst(_ *backend.State, in *il.Instruction) error {
	return backend.Unsupportedf("%s: floating point constants", in.Op)
}

func ldloc(st *backend.State, in *il.Instruction) error {
	st.Emit(ins("push", "dword "+localOffset(in.Operand.Int)))
	st.Frame.Push(word)
	return nil
}

func stloc(st *backend.State, in *il.Instruction) error {
	if err := popWord(st, "stloc"); err != nil {
		return err
	}
	st.Emit(ins("pop", "dword "+localOffset(in.Operand.Int)))
	return nil
}

func ldarg(st *backend.State, in *il.Instruction) error {
	st.Emit(ins("push", "dword "+argOffset(in.Operand.Int)))
	st.Frame.Push(word)
	return nil
}

func starg(st *backend.State, in *il.Instruction) error {
	if err := popWord(st, "starg"); err != nil {
		return err
	}
	st.Emit(ins("pop", "dword "+argOffset(in.Operand.Int)))
	return nil
}

var binaryMnemonics = map[il.Opcode]string{
	il.OpAdd: "add",
	il.OpSub: "sub",
	il.OpAnd: "and",
	il.OpOr:  "or",
	il.OpXor: "xor",
}

func binary(st *backend.State, in *il.Instruction) error {
	if err := popWords(st, in.Op.String(), 2); err != nil {
		return err
	}
	st.Emit(ins("pop", "ebx"), ins("pop", "eax"))
	if in.Op == il.OpMul {
		st.Emit(ins("imul", "eax", "ebx"))
	} else {
		st.Emit(ins(binaryMnemonics[in.Op], "eax", "ebx"))
	}
	st.Emit(ins("push", "eax"))
	st.Frame.Push(word)
	return nil
}

func unary(st *backend.State, in *il.Instruction) error {
	item, err := st.Frame.Peek(0)
	if err != nil {
		return err
	}
	if item.Size != wordSize || item.IsFloat {
		return backend.Unsupportedf("%s: %d-byte operand", in.Op, item.Size)
	}
	st.Emit(ins(in.Op.String(), "dword [esp]"))
	return nil
}

func dup(st *backend.State, _ *il.Instruction) error {
	item, err := st.Frame.Peek(0)
	if err != nil {
		return err
	}
	for i := 0; i < item.Size/wordSize; i++ {
		st.Emit(ins("push", fmt.Sprintf("dword [esp+%d]", item.Size-wordSize)))
	}
	st.Frame.Push(item)
	return nil
}

func pop(st *backend.State, _ *il.Instruction) error {
	item, err := st.Frame.Pop()
	if err != nil {
		return err
	}
	st.Emit(ins("add", "esp", fmt.Sprint(item.Size)))
	return nil
}

func br(st *backend.State, in *il.Instruction) error {
	target, err := branchTarget(st, in)
	if err != nil {
		return err
	}
	st.Emit(ins("jmp", target))
	return nil
}

func condBranch(st *backend.State, in *il.Instruction) error {
	target, err := branchTarget(st, in)
	if err != nil {
		return err
	}
	if err := popWord(st, in.Op.String()); err != nil {
		return err
	}
	jump := "jne"
	if in.Op == il.OpBrfalse {
		jump = "je"
	}
	st.Emit(ins("pop", "eax"), ins("cmp", "eax", "0"), ins(jump, target))
	return nil
}

func compareBranch(st *backend.State, in *il.Instruction) error {
	target, err := branchTarget(st, in)
	if err != nil {
		return err
	}
	if err := popWords(st, in.Op.String(), 2); err != nil {
		return err
	}
	jump := "je"
	if in.Op == il.OpBneUn {
		jump = "jne"
	}
	st.Emit(ins("pop", "ebx"), ins("pop", "eax"), ins("cmp", "eax", "ebx"), ins(jump, target))
	return nil
}

// ret moves a word-sized return value into eax, an 8-byte one into edx:eax.
func ret(st *backend.State, _ *il.Instruction) error {
	if st.Frame.Depth() > 0 {
		item, err := st.Frame.Peek(0)
		if err != nil {
			return err
		}
		switch item.Size {
		case wordSize:
			st.Emit(ins("pop", "eax"))
		case 2 * wordSize:
			st.Emit(ins("pop", "eax"), ins("pop", "edx"))
		default:
			return backend.Unsupportedf("ret: %d-byte value", item.Size)
		}
		if _, err := st.Frame.Pop(); err != nil {
			return err
		}
	}
	st.Emit(ins("jmp", endLabel(st)))
	return nil
}

func ldstr(st *backend.State, in *il.Instruction) error {
	label := st.Unit.AddStringLiteral(in.Operand.Text)
	st.Emit(ins("push", "dword "+label))
	st.Frame.Push(word)
	return nil
}

// call pops Operand.Int argument items; Operand.Text names the result kind
// ("" or "void", "i4", "i8").
func call(st *backend.State, in *il.Instruction) error {
	if in.Operand.Ref == "" {
		return backend.Invalidf("call without target method")
	}
	argBytes := 0
	for i := int64(0); i < in.Operand.Int; i++ {
		item, err := st.Frame.Pop()
		if err != nil {
			return err
		}
		argBytes += item.Size
	}
	st.Extern(in.Operand.Ref)
	st.Emit(ins("call", in.Operand.Ref))
	if argBytes > 0 {
		st.Emit(ins("add", "esp", fmt.Sprint(argBytes)))
	}
	switch in.Operand.Text {
	case "", "void":
	case "i4":
		st.Emit(ins("push", "eax"))
		st.Frame.Push(word)
	case "i8":
		st.Emit(ins("push", "edx"), ins("push", "eax"))
		st.Frame.Push(backend.StackItem{Size: 2 * wordSize})
	default:
		return backend.Unsupportedf("call: result kind %q", in.Operand.Text)
	}
	return nil
}

func ldsfld(st *backend.State, in *il.Instruction) error {
	if in.Operand.Ref == "" {
		return backend.Invalidf("ldsfld without field")
	}
	st.Extern(in.Operand.Ref)
	st.Emit(ins("push", "dword ["+in.Operand.Ref+"]"))
	st.Frame.Push(word)
	return nil
}

func stsfld(st *backend.State, in *il.Instruction) error {
	if in.Operand.Ref == "" {
		return backend.Invalidf("stsfld without field")
	}
	if err := popWord(st, "stsfld"); err != nil {
		return err
	}
	st.Extern(in.Operand.Ref)
	st.Emit(ins("pop", "dword ["+in.Operand.Ref+"]"))
	return nil
}

// convI4 is a no-op for word items and drops the high half of 8-byte items.
func convI4(st *backend.State, _ *il.Instruction) error {
	item, err := st.Frame.Pop()
	if err != nil {
		return err
	}
	switch {
	case item.IsFloat:
		return backend.Unsupportedf("conv.i4: floating point operand")
	case item.Size == 2*wordSize:
		st.Emit(ins("pop", "eax"), ins("add", "esp", fmt.Sprint(wordSize)), ins("push", "eax"))
	case item.Size != wordSize:
		return backend.Unsupportedf("conv.i4: %d-byte operand", item.Size)
	}
	st.Frame.Push(word)
	return nil
}
