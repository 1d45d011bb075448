// Package explore is the interactive chart: a DurationChart with a legend
// whose series can be toggled from the keyboard.
package explore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/ui"
	"github.com/willibrandon/tickwise/internal/ui/components"
	"github.com/willibrandon/tickwise/internal/ui/styles"
)

const loadTimeout = 10 * time.Second

// Loader fetches the series for a window, usually from the series store.
type Loader func(ctx context.Context, window metrics.TimeWindow) ([]metrics.Series, error)

// Options configures a Model.
type Options struct {
	Chart     components.DurationChartConfig
	Legend    axis.Legend
	Smoothing float64 // EWMA age; below 1 the toggle has no effect

	// Series is shown as-is when Loader is nil.
	Series []metrics.Series

	Loader          Loader
	RefreshInterval time.Duration // 0 disables periodic reloads
}

// Model is the Bubbletea model for the explorer.
type Model struct {
	keys  ui.KeyMap
	chart *components.DurationChart

	raw       []metrics.Series
	smoothing float64
	smoothOn  bool
	precision int

	window  metrics.TimeWindow
	loader  Loader
	refresh time.Duration

	fetchedAt   time.Time
	err         error
	helpVisible bool
	quitting    bool
}

// New creates an explorer model.
func New(opts Options) Model {
	chart := components.NewDurationChart(opts.Chart)
	chart.SetLegend(opts.Legend)

	m := Model{
		keys:      ui.DefaultKeyMap(),
		chart:     chart,
		raw:       opts.Series,
		smoothing: opts.Smoothing,
		precision: opts.Chart.Precision,
		window:    opts.Chart.Window,
		loader:    opts.Loader,
		refresh:   opts.RefreshInterval,
	}
	m.apply()
	return m
}

// Init starts the first load when a loader is configured.
func (m Model) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	return m.load(true)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		legendRows := len(m.chart.Series()) + 4 // blank line, status, help
		m.chart.SetSize(msg.Width-2, msg.Height-legendRows)
		return m, nil

	case ui.SeriesDataMsg:
		var next tea.Cmd
		if msg.Periodic {
			next = m.scheduleRefresh()
		}
		if msg.Window != m.window {
			return m, next
		}
		if msg.Error != nil {
			m.err = msg.Error
			logger.Warn("failed to load series", "window", msg.Window.String(), "error", msg.Error)
		} else {
			m.err = nil
			m.raw = msg.Series
			m.fetchedAt = msg.FetchedAt
			m.apply()
		}
		return m, next

	case ui.RefreshTickMsg:
		return m, m.load(true)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible

	case key.Matches(msg, m.keys.ToggleSeries):
		idx := int(msg.String()[0] - '1')
		if series := m.chart.Series(); idx < len(series) {
			m.chart.Toggle(series[idx].Name)
		}

	case key.Matches(msg, m.keys.ShowAll):
		m.chart.ShowAll()

	case key.Matches(msg, m.keys.Smooth):
		m.smoothOn = !m.smoothOn
		m.apply()

	case key.Matches(msg, m.keys.NextWindow):
		return m.shiftWindow(1)

	case key.Matches(msg, m.keys.PrevWindow):
		return m.shiftWindow(-1)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(false)
	}
	return m, nil
}

// shiftWindow moves to the neighbouring time window and reloads. Static
// series have no window to move through.
func (m Model) shiftWindow(delta int) (tea.Model, tea.Cmd) {
	if m.loader == nil {
		return m, nil
	}
	windows := metrics.AllTimeWindows()
	next := int(m.window) + delta
	if next < 0 || next >= len(windows) {
		return m, nil
	}
	m.window = windows[next]
	m.chart.SetWindow(m.window)
	return m, m.load(false)
}

// apply pushes the raw series, smoothed if enabled, into the chart.
func (m *Model) apply() {
	series := m.raw
	if m.smoothOn && m.smoothing >= 1 {
		series = make([]metrics.Series, len(m.raw))
		for i, s := range m.raw {
			series[i] = s.Smoothed(m.smoothing)
		}
	}
	m.chart.SetSeries(series)
}

// scheduleRefresh arms the next periodic reload.
func (m Model) scheduleRefresh() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return ui.RefreshTickMsg{At: t}
	})
}

// load fetches the current window. periodic is true only for the initial
// load and loads fired by the refresh tick.
func (m Model) load(periodic bool) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	loader, window := m.loader, m.window
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		series, err := loader(ctx, window)
		return ui.SeriesDataMsg{
			Series:    series,
			Window:    window,
			FetchedAt: time.Now(),
			Error:     err,
			Periodic:  periodic,
		}
	}
}

// View renders the explorer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	rows := components.BuildLegendRows(m.chart.Series(), m.chart.Legend())
	sections := []string{
		m.chart.View(),
		"",
		components.RenderLegend(rows, m.chart.Unit(), m.precision),
		"",
		m.renderStatus(),
	}
	if m.helpVisible {
		sections = append(sections, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatus() string {
	parts := []string{fmt.Sprintf("unit %s", m.chart.Unit().Abbrev())}
	if m.smoothOn {
		parts = append(parts, fmt.Sprintf("smoothing %.0f", m.smoothing))
	}
	if !m.fetchedAt.IsZero() {
		parts = append(parts, "updated "+m.fetchedAt.Format("15:04:05"))
	}
	status := styles.MutedStyle.Render(strings.Join(parts, " | "))
	if m.err != nil {
		status += "  " + styles.ErrorStyle.Render("load failed: "+m.err.Error())
	}
	return status
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.LabelStyle.Render(h.Key)+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// Unit returns the axis unit currently in use.
func (m Model) Unit() axis.Unit {
	return m.chart.Unit()
}

// Window returns the selected time window.
func (m Model) Window() metrics.TimeWindow {
	return m.window
}

// Smoothing reports whether smoothing is on.
func (m Model) Smoothing() bool {
	return m.smoothOn
}
