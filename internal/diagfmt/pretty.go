package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"kilc/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
//
//	<SEV> <CODE> <where>  <Message>
//
// where выравнивается по самой широкой позиции в выводе. With GroupByUnit
// the diagnostics of one unit are printed together under its header, units
// in order of first appearance.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	items := bag.Items()
	if len(items) == 0 {
		return
	}

	whereWidth := 0
	for _, d := range items {
		whereWidth = max(whereWidth, runewidth.StringWidth(location(d, !opts.GroupByUnit)))
	}

	unitHeader := color.New(color.Bold)
	codeColor := color.New(color.FgCyan)
	if !opts.Color {
		unitHeader.DisableColor()
		codeColor.DisableColor()
	}

	line := func(indent string, d diag.Diagnostic) {
		sev := severityColor(d.Severity)
		if !opts.Color {
			sev.DisableColor()
		}
		msg := strings.Join(strings.Fields(d.Message), " ")
		if opts.Width > 0 {
			msg = runewidth.Truncate(msg, opts.Width, "...")
		}
		fmt.Fprintf(w, "%s%s %s %s  %s\n",
			indent,
			sev.Sprint(runewidth.FillRight(strings.ToLower(d.Severity.String()), 7)),
			codeColor.Sprint(d.Code.ID()),
			runewidth.FillRight(location(d, !opts.GroupByUnit), whereWidth),
			msg,
		)
	}

	if !opts.GroupByUnit {
		for _, d := range items {
			line("", d)
		}
		return
	}
	for _, unit := range bag.Units() {
		name := unit
		if name == "" {
			name = "(program)"
		}
		fmt.Fprintln(w, unitHeader.Sprint(name))
		for _, d := range bag.ForUnit(unit) {
			line("  ", d)
		}
	}
}

func location(d diag.Diagnostic, withUnit bool) string {
	var parts []string
	if withUnit && d.Unit != "" {
		parts = append(parts, d.Unit)
	}
	if d.Method != "" {
		parts = append(parts, fmt.Sprintf("%s+0x%02X", d.Method, d.Offset))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ": ")
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgBlue)
	}
}
