package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/ui/styles"
)

// LegendRow is the summary shown for one series.
type LegendRow struct {
	Index   int
	Name    string
	Visible bool
	Points  int
	Peak    float64
	Latest  float64
	Mean    float64
}

// BuildLegendRows summarises series in plotting order.
func BuildLegendRows(series []metrics.Series, legend axis.Legend) []LegendRow {
	rows := make([]LegendRow, len(series))
	for i, s := range series {
		row := LegendRow{
			Index:   i,
			Name:    s.Name,
			Visible: legend.Visible(s.Name),
			Points:  s.Len(),
			Peak:    s.Peak(),
		}
		if n := s.Len(); n > 0 {
			row.Latest = s.Data[n-1].Value
			sum := 0.0
			for _, dp := range s.Data {
				sum += dp.Value
			}
			row.Mean = sum / float64(n)
		}
		rows[i] = row
	}
	return rows
}

// RenderLegend renders one line per series with its key, color marker and
// readouts in the shared unit. Hidden series are dimmed.
func RenderLegend(rows []LegendRow, unit axis.Unit, precision int) string {
	if len(rows) == 0 {
		return styles.MutedStyle.Render("no series")
	}

	nameWidth := 0
	for _, r := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		key := " "
		if r.Index < 9 {
			key = fmt.Sprint(r.Index + 1)
		}

		marker := "●"
		style := lipgloss.NewStyle().Foreground(styles.SeriesColorAt(r.Index).Legend)
		if !r.Visible {
			marker = "○"
			style = styles.MutedStyle
		}

		stats := "no data"
		if r.Points > 0 {
			stats = fmt.Sprintf("peak %s  mean %s  latest %s",
				axis.FormatDuration(r.Peak, unit, precision),
				axis.FormatDuration(r.Mean, unit, precision),
				axis.FormatDuration(r.Latest, unit, precision),
			)
		}
		name := r.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(r.Name))
		line := fmt.Sprintf("[%s] %s %s  %s", key, marker, name, stats)
		if !r.Visible {
			line += "  (hidden)"
		}
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
