// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/docpress/internal/batch"
	"github.com/pdiddy/docpress/pkg/types"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Row is one label/value pair in the summary table.
type Row struct {
	Label string
	Value string
}

// SummaryRows converts a report into the rows shown after a run.
func SummaryRows(report types.BatchReport) []Row {
	s := batch.Summarize(report)
	rows := []Row{
		{"Operation", report.Operation},
		{"Total files", fmt.Sprintf("%d", report.Total())},
		{"Succeeded", fmt.Sprintf("%d", s.SuccessCount)},
		{"Failed", fmt.Sprintf("%d", s.FailureCount)},
		{"Skipped", fmt.Sprintf("%d", s.SkippedCount)},
		{"Elapsed", fmt.Sprintf("%.1fs", report.Elapsed.Seconds())},
	}
	return rows
}

// RenderTable renders rows as an aligned, styled two-column table.
func RenderTable(rows []Row) string {
	labelWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	var lines []string
	for _, row := range rows {
		style := valueStyle
		if row.Label == "Failed" && row.Value != "0" {
			style = failStyle
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			labelStyle.Render(padRight(row.Label, labelWidth)), style.Render(row.Value)))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
