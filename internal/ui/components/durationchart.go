// Package components provides terminal rendering for duration series.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/ui/styles"
)

// yAxisWidth is the room asciigraph needs left of the plot for labels.
const yAxisWidth = 10

// DurationChartConfig configures a DurationChart.
type DurationChartConfig struct {
	Title     string
	Width     int
	Height    int
	Ticks     int
	Precision int
	MinPoints int
	Window    metrics.TimeWindow
	Unit      axis.Unit // axis.UnitAuto selects a unit from the data
}

// DefaultDurationChartConfig returns sensible defaults.
func DefaultDurationChartConfig() DurationChartConfig {
	return DurationChartConfig{
		Width:     80,
		Height:    12,
		Ticks:     5,
		Precision: 1,
		MinPoints: 2,
		Window:    metrics.TimeWindow1h,
	}
}

// DurationChart plots several duration series against one shared axis unit.
type DurationChart struct {
	title     string
	width     int
	height    int
	ticks     int
	precision int
	minPoints int
	window    metrics.TimeWindow
	forced    axis.Unit

	series []metrics.Series
	legend axis.Legend
}

// NewDurationChart creates a chart, clamping undersized dimensions.
func NewDurationChart(config DurationChartConfig) *DurationChart {
	if config.MinPoints < 1 {
		config.MinPoints = 2
	}
	if config.Height < 3 {
		config.Height = 3
	}
	if config.Width < 20 {
		config.Width = 20
	}
	if config.Ticks < 2 {
		config.Ticks = 5
	}

	return &DurationChart{
		title:     config.Title,
		width:     config.Width,
		height:    config.Height,
		ticks:     config.Ticks,
		precision: config.Precision,
		minPoints: config.MinPoints,
		window:    config.Window,
		forced:    config.Unit,
		legend:    axis.Legend{},
	}
}

// SetSeries replaces the plotted series. The chart keeps its own copy in
// descending order of magnitude, which is what the range estimate expects.
func (c *DurationChart) SetSeries(series []metrics.Series) {
	sorted := append([]metrics.Series(nil), series...)
	if err := axis.CheckDescending(sorted); err != nil {
		logger.Debug("reordering series by magnitude", "reason", err)
		metrics.SortByMagnitude(sorted)
	}
	c.series = sorted
}

// Series returns the series in plotting order.
func (c *DurationChart) Series() []metrics.Series {
	return c.series
}

// SetLegend replaces the legend selection. A nil legend shows everything.
func (c *DurationChart) SetLegend(legend axis.Legend) {
	c.legend = make(axis.Legend, len(legend))
	for k, v := range legend {
		c.legend[k] = v
	}
}

// Legend returns the current legend selection.
func (c *DurationChart) Legend() axis.Legend {
	return c.legend
}

// Toggle flips the visibility of the named series.
func (c *DurationChart) Toggle(name string) {
	c.legend[name] = !c.legend.Visible(name)
}

// ShowAll clears every hidden flag.
func (c *DurationChart) ShowAll() {
	c.legend = axis.Legend{}
}

// SetWindow updates the window named in the caption.
func (c *DurationChart) SetWindow(window metrics.TimeWindow) {
	c.window = window
}

// SetTitle updates the chart title.
func (c *DurationChart) SetTitle(title string) {
	c.title = title
}

// SetSize updates the dimensions, ignoring values that are too small.
func (c *DurationChart) SetSize(width, height int) {
	if width >= 20 {
		c.width = width
	}
	if height >= 3 {
		c.height = height
	}
}

// Unit returns the axis unit for the currently visible series.
func (c *DurationChart) Unit() axis.Unit {
	if c.forced != axis.UnitAuto {
		return c.forced
	}
	return axis.SelectDurationUnit(c.series, c.legend)
}

// Range returns the visible value envelope.
func (c *DurationChart) Range() (axis.Range, bool) {
	return axis.FindRange(c.series, c.legend)
}

// Ticks returns the axis tick labels for the visible range.
func (c *DurationChart) Ticks() []axis.Tick {
	r, ok := c.Range()
	if !ok {
		return nil
	}
	return axis.Ticks(r, c.ticks, c.Unit())
}

// visible returns the indexes of plottable series.
func (c *DurationChart) visible() []int {
	var idx []int
	for i, s := range c.series {
		if c.legend.Visible(s.Name) && s.Len() > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// HasSufficientData reports whether any visible series has MinPoints.
func (c *DurationChart) HasSufficientData() bool {
	for _, i := range c.visible() {
		if c.series[i].Len() >= c.minPoints {
			return true
		}
	}
	return false
}

// View renders the chart.
func (c *DurationChart) View() string {
	if !c.HasSufficientData() {
		return c.renderCollectingData()
	}
	return c.renderGraph()
}

func (c *DurationChart) buildCaption(unit axis.Unit) string {
	caption := c.window.String()
	if c.title != "" {
		caption = fmt.Sprintf("%s (%s)", c.title, c.window.String())
	}
	return fmt.Sprintf("%s, axis in %s", caption, unit.Abbrev())
}

func (c *DurationChart) renderCollectingData() string {
	best := 0
	for _, i := range c.visible() {
		best = max(best, c.series[i].Len())
	}
	msg := fmt.Sprintf("Collecting data... (%d/%d points)", best, c.minPoints)
	if len(c.series) > 0 && len(c.visible()) == 0 {
		msg = "All series hidden"
	}

	content := lipgloss.NewStyle().
		Width(c.width - 4).
		Height(c.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(styles.ColorMuted).
		Render(msg)

	unit := c.forced
	if unit == axis.UnitAuto {
		unit = axis.Millisecond
	}
	header := styles.TitleStyle.Render(c.buildCaption(unit))
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (c *DurationChart) renderGraph() string {
	unit := c.Unit()
	graphWidth := max(c.width-yAxisWidth, 20)
	graphHeight := max(c.height-3, 2) // caption and tick rows

	var data [][]float64
	var colors []asciigraph.AnsiColor
	for _, i := range c.visible() {
		scaled := scale(c.series[i].Values(), unit.Millis())
		data = append(data, resample(scaled, graphWidth))
		colors = append(colors, styles.SeriesColorAt(i).Line)
	}

	precision := c.precision
	if precision < 0 {
		precision = 0
	}
	graph := asciigraph.PlotMany(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Precision(uint(precision)),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(c.buildCaption(unit)),
	)

	lines := []string{strings.TrimRight(graph, "\n")}
	if ticks := c.Ticks(); len(ticks) > 0 {
		lines = append(lines, styles.MutedStyle.Render("ticks: "+strings.Join(axis.Labels(ticks), " · ")))
	}
	return strings.Join(lines, "\n")
}

// scale divides every value by unitMillis.
func scale(values []float64, unitMillis float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / unitMillis
	}
	return out
}

// resample averages data down to at most width buckets.
func resample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}

	out := make([]float64, width)
	bucket := float64(len(data)) / float64(width)
	for i := range out {
		start := int(float64(i) * bucket)
		end := min(int(float64(i+1)*bucket), len(data))
		if start >= end {
			start = max(end-1, 0)
		}

		sum := 0.0
		for _, v := range data[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
