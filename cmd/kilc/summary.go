package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kilc/internal/diag"
	"kilc/internal/driver"
	"kilc/internal/scanner"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	summaryDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func statusStyle(st scanner.Status) lipgloss.Style {
	switch st {
	case scanner.StatusOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case scanner.StatusPartialFailure:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	}
}

// renderSummary prints one line per unit in scan order and a totals line.
func renderSummary(res *driver.Result) string {
	var b strings.Builder
	b.WriteString(summaryTitle.Render(fmt.Sprintf("target %s", res.Target)))
	b.WriteString("\n")

	nameWidth := 0
	for _, u := range res.Units {
		nameWidth = max(nameWidth, lipgloss.Width(u.Unit.ID))
	}
	for _, u := range res.Units {
		name := u.Unit.ID + strings.Repeat(" ", nameWidth-lipgloss.Width(u.Unit.ID))
		line := fmt.Sprintf("  %s  %s", name, statusStyle(u.Status).Render(fmt.Sprintf("%-15s", u.Status)))
		if u.Path != "" {
			line += " " + summaryDim.Render(u.Path)
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	errs := res.Counts.Count(diag.SevError)
	warns := res.Counts.Count(diag.SevWarning)
	totals := fmt.Sprintf("%d units, %d errors, %d warnings, %s", len(res.Units), errs, warns, res.Status)
	b.WriteString(statusStyle(res.Status).Render(totals))
	b.WriteString("\n")
	return b.String()
}
