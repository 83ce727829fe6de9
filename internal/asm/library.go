package asm

import "sort"

// Library is the output assembly collection of one unit.
type Library struct {
	Blocks []*Block
}

// NewBlock appends an empty block with the given priority and returns it.
func (l *Library) NewBlock(priority int64) *Block {
	b := &Block{Priority: priority}
	l.Blocks = append(l.Blocks, b)
	return b
}

// Add appends an already built block.
func (l *Library) Add(b *Block) {
	if b != nil {
		l.Blocks = append(l.Blocks, b)
	}
}

// Sorted returns the blocks in placement order; equal priorities keep
// insertion order.
func (l *Library) Sorted() []*Block {
	out := make([]*Block, len(l.Blocks))
	copy(out, l.Blocks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
