package asm

import (
	"math"
	"strconv"
)

// Placement priorities of the per-unit metadata blocks. Lower sorts earlier,
// so data referenced by the other tables is emitted first.
const (
	metadataBase = math.MinInt64 / 2

	PriorityStringLiterals int64 = metadataBase - 10
	PriorityStaticFields   int64 = metadataBase - 9
	PriorityTypesTable     int64 = metadataBase - 8
	PriorityMethodTables   int64 = metadataBase + 0
	PriorityFieldTables    int64 = metadataBase + 1
)

// Origin identifies the method a block was generated from.
type Origin interface {
	MethodLabel() string
	MethodSignature() string
}

// Block is one unit of output placed by the linker according to Priority.
type Block struct {
	Priority int64
	Ops      []Op
	Origin   Origin
	PlugPath string

	externals []string
	external  map[string]struct{}
}

// Append adds ops in order.
func (b *Block) Append(ops ...Op) {
	b.Ops = append(b.Ops, ops...)
}

// Len returns the number of ops.
func (b *Block) Len() int { return len(b.Ops) }

// AddExternalLabel records label as defined elsewhere. Duplicates are ignored
// and the first-seen order is kept.
func (b *Block) AddExternalLabel(label string) {
	if label == "" || label == Sentinel {
		return
	}
	if b.external == nil {
		b.external = make(map[string]struct{})
	}
	if _, ok := b.external[label]; ok {
		return
	}
	b.external[label] = struct{}{}
	b.externals = append(b.externals, label)
}

// HasExternalLabel reports whether label was registered as external.
func (b *Block) HasExternalLabel(label string) bool {
	_, ok := b.external[label]
	return ok
}

// ExternalLabels returns the external labels in registration order.
func (b *Block) ExternalLabels() []string {
	return b.externals
}

// Plugged reports whether the block stands for hand-written code.
func (b *Block) Plugged() bool { return b.PlugPath != "" }

// Label returns the entry label of the block's method ("" for data blocks).
func (b *Block) Label() string {
	if b.Origin == nil {
		return ""
	}
	return b.Origin.MethodLabel()
}

// GenerateILOpLabel names the position of one IL instruction inside the block:
// "<method>.IL_<pos>_<ext>".
func (b *Block) GenerateILOpLabel(pos int, ext string) string {
	base := b.Label()
	if base == "" {
		base = "block"
	}
	return base + ".IL_" + strconv.Itoa(pos) + "_" + ext
}
