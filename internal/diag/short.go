package diag

import (
	"fmt"
	"strings"
)

// FormatShortDiagnostics renders diagnostics one per line in log order:
//
//	<severity> <CODE> <unit> <method>+0x<offset> <message>
//
// Unit and method are replaced by "-" when empty. Multi-line messages are
// folded onto one line so the output stays grep friendly.
func FormatShortDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, formatShort(d))
	}
	return strings.Join(lines, "\n")
}

func formatShort(d Diagnostic) string {
	unit := d.Unit
	if unit == "" {
		unit = "-"
	}
	where := "-"
	if d.Method != "" {
		where = fmt.Sprintf("%s+0x%02X", d.Method, d.Offset)
	}
	msg := strings.Join(strings.Fields(d.Message), " ")
	return fmt.Sprintf("%s %s %s %s %s", strings.ToLower(d.Severity.String()), d.Code.ID(), unit, where, msg)
}
