// Package asmout writes scanned units as NASM source files, one per unit.
package asmout

import (
	"fmt"
	"strings"

	"kilc/internal/asm"
	"kilc/internal/il"
)

// Render returns the assembly text of u. Blocks appear in priority order;
// labels referenced but not defined in the unit are declared extern.
func Render(u *il.Unit) string {
	blocks := u.Output.Sorted()

	defined := make(map[string]struct{})
	for _, b := range blocks {
		if label := b.Label(); label != "" {
			defined[label] = struct{}{}
		}
		for _, op := range b.Ops {
			if d, ok := op.(asm.Definer); ok {
				for _, label := range d.Defines() {
					defined[label] = struct{}{}
				}
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "; unit %s\nBITS 32\n", u.ID)

	seen := make(map[string]struct{})
	var externs []string
	for _, b := range blocks {
		for _, label := range b.ExternalLabels() {
			if _, ok := defined[label]; ok {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			externs = append(externs, label)
		}
	}
	if len(externs) > 0 {
		sb.WriteByte('\n')
		for _, label := range externs {
			fmt.Fprintf(&sb, "extern %s\n", label)
		}
	}

	section := ""
	for _, b := range blocks {
		want := ".text"
		if b.Origin == nil {
			want = ".data"
		}
		if len(b.Ops) == 0 && !b.Plugged() {
			continue
		}
		if want != section {
			fmt.Fprintf(&sb, "\nSECTION %s\n", want)
			section = want
		}
		sb.WriteByte('\n')
		renderBlock(&sb, b)
	}
	return sb.String()
}

func renderBlock(sb *strings.Builder, b *asm.Block) {
	if b.Plugged() {
		fmt.Fprintf(sb, "; plug %s <- %s\n", b.Label(), b.PlugPath)
		return
	}
	if label := b.Label(); label != "" {
		fmt.Fprintf(sb, "; %s\nGLOBAL %s:function\n%s:\n", b.Origin.MethodSignature(), label, label)
	}
	for _, op := range b.Ops {
		meta := op.Meta()
		if meta.RequiresILLabel {
			fmt.Fprintf(sb, "%s:\n", b.GenerateILOpLabel(meta.ILPosition, ""))
		}
		text := op.Render()
		if op.Kind() == asm.OpInstr {
			text = "\t" + text
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
}
