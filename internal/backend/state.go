package backend

import (
	"kilc/internal/asm"
	"kilc/internal/il"
)

// State is the conversion context of one instruction block. Handlers mutate
// Frame and append ops to Result.
type State struct {
	Unit   *il.Unit
	Method *il.MethodDescriptor
	Input  *il.Block
	Result *asm.Block
	Frame  *StackFrame

	positions map[*il.Instruction]int
	byOffset  map[int]int
}

// NewState prepares the context for converting block into result.
func NewState(unit *il.Unit, block *il.Block, result *asm.Block) *State {
	st := &State{
		Unit:      unit,
		Method:    block.Method,
		Input:     block,
		Result:    result,
		Frame:     &StackFrame{},
		positions: make(map[*il.Instruction]int, len(block.Instrs)),
		byOffset:  make(map[int]int, len(block.Instrs)),
	}
	for i := range block.Instrs {
		ins := &block.Instrs[i]
		st.positions[ins] = i
		if ins.Kind != il.KindNormal {
			continue
		}
		if _, seen := st.byOffset[ins.Offset]; !seen {
			st.byOffset[ins.Offset] = i
		}
	}
	return st
}

// PositionOf returns the logical position of ins inside the block, or -1.
func (s *State) PositionOf(ins *il.Instruction) int {
	if pos, ok := s.positions[ins]; ok {
		return pos
	}
	return -1
}

// PositionOfOffset resolves an IL byte offset (a branch target) to the
// position of the first real instruction at that offset.
func (s *State) PositionOfOffset(offset int) (int, bool) {
	pos, ok := s.byOffset[offset]
	return pos, ok
}

// Label names the IL position pos inside the result block.
func (s *State) Label(pos int) string {
	return s.Result.GenerateILOpLabel(pos, "")
}

// Emit appends ops to the result block.
func (s *State) Emit(ops ...asm.Op) {
	s.Result.Append(ops...)
}

// Extern records label as resolved at link time.
func (s *State) Extern(label string) {
	s.Result.AddExternalLabel(label)
}
