package il

import "strings"

// SanitizeLabel maps an arbitrary identifier onto the assembler's label
// alphabet [A-Za-z0-9_.]; every other rune becomes '_'.
func SanitizeLabel(s string) string {
	if s == "" {
		return "_"
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
