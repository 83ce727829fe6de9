package il

import (
	"fmt"
	"slices"

	"kilc/internal/asm"
)

// Unit is one compilation unit: a library or program module with its own
// types, instruction blocks and output. Dependencies are shared, not owned.
type Unit struct {
	ID           string
	Types        []*TypeDescriptor
	Dependencies []*Unit
	Blocks       []*Block
	Output       asm.Library

	blockByMethod map[*MethodDescriptor]*Block
	literals      []StringLiteral
	literalByText map[string]string
	scanned       bool
}

// StringLiteral is one entry of the unit's literal table.
type StringLiteral struct {
	Label string
	Text  string
}

// NewUnit creates an empty unit.
func NewUnit(id string) *Unit {
	return &Unit{ID: id}
}

// AddType appends t to the unit's own type list. Appending during a scan is
// safe: the scanner iterates by index.
func (u *Unit) AddType(t *TypeDescriptor) *TypeDescriptor {
	u.Types = append(u.Types, t)
	return t
}

// Owns reports whether t is in the unit's own type list. Types is read
// directly, so entries appended without AddType count too.
func (u *Unit) Owns(t *TypeDescriptor) bool {
	if t == nil {
		return false
	}
	return slices.Contains(u.Types, t)
}

// AddDependency records dep as a dependency of u.
func (u *Unit) AddDependency(dep *Unit) {
	u.Dependencies = append(u.Dependencies, dep)
}

// AddBlock registers the instruction block of b.Method. Each method has at
// most one block.
func (u *Unit) AddBlock(b *Block) error {
	if b == nil || b.Method == nil {
		return fmt.Errorf("unit %s: block without method", u.ID)
	}
	if u.blockByMethod == nil {
		u.blockByMethod = make(map[*MethodDescriptor]*Block)
	}
	if _, dup := u.blockByMethod[b.Method]; dup {
		return fmt.Errorf("unit %s: method %s already has a block", u.ID, b.Method.ID)
	}
	u.blockByMethod[b.Method] = b
	u.Blocks = append(u.Blocks, b)
	return nil
}

// BlockFor returns the instruction block of m, if any.
func (u *Unit) BlockFor(m *MethodDescriptor) (*Block, bool) {
	b, ok := u.blockByMethod[m]
	return b, ok
}

// AddStringLiteral registers text in the unit's literal table and returns
// its label. Equal texts share one label.
func (u *Unit) AddStringLiteral(text string) string {
	if label, ok := u.literalByText[text]; ok {
		return label
	}
	if u.literalByText == nil {
		u.literalByText = make(map[string]string)
	}
	label := fmt.Sprintf("StringLiteral_%s_%d", SanitizeLabel(u.ID), len(u.literals))
	u.literalByText[text] = label
	u.literals = append(u.literals, StringLiteral{Label: label, Text: text})
	return label
}

// StringLiterals returns the literal table in registration order.
func (u *Unit) StringLiterals() []StringLiteral {
	return u.literals
}

// MarkScanned sets the one-shot scanned flag and reports whether this call
// was the one that set it.
func (u *Unit) MarkScanned() bool {
	if u.scanned {
		return false
	}
	u.scanned = true
	return true
}

// Scanned reports whether the unit has entered a scan.
func (u *Unit) Scanned() bool { return u.scanned }
