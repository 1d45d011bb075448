// Package styles holds the lipgloss palette shared by tickwise views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// UI element colors
var (
	ColorBorder  = lipgloss.Color("240") // gray borders
	ColorAccent  = lipgloss.Color("6")   // cyan titles
	ColorMuted   = lipgloss.Color("8")   // secondary text, hidden series
	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError   = lipgloss.Color("9")
)

// SeriesColor pairs the graph line color with the matching legend color.
type SeriesColor struct {
	Line   asciigraph.AnsiColor
	Legend lipgloss.Color
}

// seriesPalette is cycled through by series index.
var seriesPalette = []SeriesColor{
	{asciigraph.Green, lipgloss.Color("10")},
	{asciigraph.Blue, lipgloss.Color("12")},
	{asciigraph.Cyan, lipgloss.Color("14")},
	{asciigraph.Yellow, lipgloss.Color("11")},
	{asciigraph.Magenta, lipgloss.Color("13")},
	{asciigraph.Red, lipgloss.Color("9")},
}

// SeriesColorAt returns the palette entry for the i-th series.
func SeriesColorAt(i int) SeriesColor {
	if i < 0 {
		i = -i
	}
	return seriesPalette[i%len(seriesPalette)]
}
