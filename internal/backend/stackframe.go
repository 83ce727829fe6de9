package backend

// StackItem models one value on the IL operand stack at conversion time.
type StackItem struct {
	Size    int // bytes occupied on the machine stack
	IsFloat bool
}

// StackFrame is the synthetic operand stack a handler reasons about while
// it converts one block.
type StackFrame struct {
	items []StackItem
}

// Push adds item on top.
func (f *StackFrame) Push(item StackItem) {
	f.items = append(f.items, item)
}

// Pop removes the top item. Popping an empty stack is an ErrInvalidOp.
func (f *StackFrame) Pop() (StackItem, error) {
	if len(f.items) == 0 {
		return StackItem{}, Invalidf("operand stack underflow")
	}
	top := f.items[len(f.items)-1]
	f.items = f.items[:len(f.items)-1]
	return top, nil
}

// Peek returns the item depth positions below the top (0 = top).
func (f *StackFrame) Peek(depth int) (StackItem, error) {
	if depth < 0 || depth >= len(f.items) {
		return StackItem{}, Invalidf("operand stack has %d items, peek at %d", len(f.items), depth)
	}
	return f.items[len(f.items)-1-depth], nil
}

// Rotate moves the item n-1 positions below the top to the top, shifting the
// others down by one. Rotate(2) swaps the two top items.
func (f *StackFrame) Rotate(n int) error {
	if n < 2 {
		return nil
	}
	if n > len(f.items) {
		return Invalidf("cannot switch %d items, stack has %d", n, len(f.items))
	}
	base := len(f.items) - n
	moved := f.items[base]
	copy(f.items[base:], f.items[base+1:])
	f.items[len(f.items)-1] = moved
	return nil
}

// Depth returns the number of items.
func (f *StackFrame) Depth() int { return len(f.items) }
