package explore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/ui"
	"github.com/willibrandon/tickwise/internal/ui/components"
)

func testSeries() []metrics.Series {
	return []metrics.Series{
		metrics.NewSeries("p50", []float64{60000, 65000, 90000, 70000}),
		metrics.NewSeries("p99", []float64{3600000, 7200000, 5400000, 4000000}),
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestToggleSeriesChangesUnit(t *testing.T) {
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Series: testSeries()})
	if got := m.Unit(); got != axis.Minute {
		t.Fatalf("initial unit = %v, want min", got)
	}

	// Series are ordered by magnitude, so key 1 is p99.
	m, _ = press(t, m, runes("1"))
	if got := m.Unit(); got != axis.Second {
		t.Errorf("after hiding p99 unit = %v, want s", got)
	}
	if !strings.Contains(m.View(), "(hidden)") {
		t.Error("legend should mark the hidden series")
	}

	m, _ = press(t, m, runes("a"))
	if got := m.Unit(); got != axis.Minute {
		t.Errorf("after show all unit = %v, want min", got)
	}
}

func TestToggleOutOfRangeIgnored(t *testing.T) {
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Series: testSeries()})
	m, _ = press(t, m, runes("9"))
	if got := m.Unit(); got != axis.Minute {
		t.Errorf("unit = %v, want min", got)
	}
}

func TestSmoothingToggle(t *testing.T) {
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Series: testSeries(), Smoothing: 5})
	m, _ = press(t, m, runes("s"))
	if !m.Smoothing() {
		t.Error("expected smoothing on")
	}
	if !strings.Contains(m.View(), "smoothing 5") {
		t.Error("status should show smoothing")
	}
	m, _ = press(t, m, runes("s"))
	if m.Smoothing() {
		t.Error("expected smoothing off")
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := New(Options{Chart: components.DefaultDurationChartConfig()})
		m, cmd := press(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
		if m.View() != "" {
			t.Errorf("%s: expected empty view after quit", msg)
		}
	}
}

func TestWindowResize(t *testing.T) {
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Series: testSeries()})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, line := range strings.Split(m.View(), "\n") {
		if len([]rune(line)) > 200 {
			t.Errorf("line wider than expected: %d", len([]rune(line)))
		}
	}
}

func TestLoaderFlow(t *testing.T) {
	var requested []metrics.TimeWindow
	loader := func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
		requested = append(requested, w)
		return testSeries(), nil
	}

	cfg := components.DefaultDurationChartConfig()
	cfg.Window = metrics.TimeWindow1h
	m := New(Options{Chart: cfg, Loader: loader, RefreshInterval: time.Minute})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected initial load")
	}
	m, next := press(t, m, cmd())
	if next == nil {
		t.Error("expected refresh tick to be scheduled")
	}
	if got := m.Unit(); got != axis.Minute {
		t.Errorf("unit = %v, want min", got)
	}

	m, cmd = press(t, m, runes("]"))
	if m.Window() != metrics.TimeWindow24h {
		t.Fatalf("window = %v, want 24h", m.Window())
	}
	m, _ = press(t, m, cmd())
	if len(requested) != 2 || requested[1] != metrics.TimeWindow24h {
		t.Errorf("requested windows = %v", requested)
	}

	m, _ = press(t, m, ui.SeriesDataMsg{Window: metrics.TimeWindow1h, Series: nil})
	if len(m.chart.Series()) != 2 {
		t.Error("stale window data should be ignored")
	}
}

func TestLoaderError(t *testing.T) {
	loader := func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
		return nil, errors.New("database is locked")
	}
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Loader: loader})
	m, _ = press(t, m, m.Init()())
	if !strings.Contains(m.View(), "load failed: database is locked") {
		t.Errorf("expected error in status, got:\n%s", m.View())
	}
}

func TestRefreshChainSurvivesManualReloads(t *testing.T) {
	loader := func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
		return testSeries(), nil
	}
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Loader: loader, RefreshInterval: time.Minute})

	m, tick := press(t, m, m.Init()())
	if tick == nil {
		t.Fatal("initial load should arm the refresh tick")
	}

	for i := 0; i < 3; i++ {
		var load tea.Cmd
		m, load = press(t, m, runes("r"))
		if load == nil {
			t.Fatal("r should issue a load")
		}
		msg, ok := load().(ui.SeriesDataMsg)
		if !ok || msg.Periodic {
			t.Fatalf("manual reload produced %#v", msg)
		}
		var next tea.Cmd
		m, next = press(t, m, msg)
		if next != nil {
			t.Fatalf("manual reload %d armed a second refresh tick", i+1)
		}
	}

	m, load := press(t, m, ui.RefreshTickMsg{At: time.Now()})
	if load == nil {
		t.Fatal("refresh tick should issue a load")
	}
	msg := load().(ui.SeriesDataMsg)
	if !msg.Periodic {
		t.Error("tick-driven load should be periodic")
	}
	if _, next := press(t, m, msg); next == nil {
		t.Error("periodic load should re-arm the tick")
	}
}

func TestStalePeriodicLoadKeepsRefreshing(t *testing.T) {
	loader := func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
		return testSeries(), nil
	}
	cfg := components.DefaultDurationChartConfig()
	cfg.Window = metrics.TimeWindow1h
	m := New(Options{Chart: cfg, Loader: loader, RefreshInterval: time.Minute})

	m, _ = press(t, m, runes("]"))
	_, next := press(t, m, ui.SeriesDataMsg{Window: metrics.TimeWindow1h, Periodic: true})
	if next == nil {
		t.Error("a periodic load for an old window must still re-arm the tick")
	}
}

func TestNoRefreshWithoutInterval(t *testing.T) {
	loader := func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
		return testSeries(), nil
	}
	m := New(Options{Chart: components.DefaultDurationChartConfig(), Loader: loader})
	if _, next := press(t, m, m.Init()()); next != nil {
		t.Error("no tick expected when RefreshInterval is 0")
	}
}
