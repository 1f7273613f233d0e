// Package display renders trend statistics for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/testops/report-insights/internal/prompt"
	"github.com/testops/report-insights/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// RenderStats formats a statistics summary. When styled is false (stdout is
// not a TTY) the output is plain text with the same layout.
func RenderStats(project string, s *stats.Summary, styled bool) string {
	title := fmt.Sprintf("Pass rate for %s, last %d days (%d runs)", project, s.PeriodDays, len(s.Records))

	rows := [][2]string{
		{"Mean", prompt.Percent(s.Mean) + "%"},
		{"Median", prompt.Percent(s.Median) + "%"},
		{"Std deviation", prompt.Percent(s.StdDev)},
		{"Best run", fmt.Sprintf("%s%% on %s", prompt.Percent(s.Max.Rate), s.Max.Record.DateString())},
		{"Worst run", fmt.Sprintf("%s%% on %s", prompt.Percent(s.Min.Rate), s.Min.Record.DateString())},
	}

	var b strings.Builder
	if styled {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
		for _, row := range rows {
			b.WriteString(labelStyle.Render(row[0]))
			b.WriteString(valueStyle.Render(row[1]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(historyStyle.Render(s.History()))
	} else {
		b.WriteString(title)
		b.WriteString("\n\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "%-20s%s\n", row[0], row[1])
		}
		b.WriteString("\n")
		b.WriteString(s.History())
	}
	return b.String()
}
