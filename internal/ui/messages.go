// Package ui provides Bubbletea TUI plumbing for tickwise.
package ui

import (
	"time"

	"github.com/willibrandon/tickwise/internal/metrics"
)

// Data messages (from loaders to UI)

// SeriesDataMsg carries a freshly loaded set of series.
type SeriesDataMsg struct {
	Series    []metrics.Series
	Window    metrics.TimeWindow
	FetchedAt time.Time
	Error     error

	// Periodic marks loads issued by the refresh tick. Only these re-arm
	// the tick, so manual reloads never start a second refresh chain.
	Periodic bool
}

// Command messages

// RefreshTickMsg asks the explorer to reload its series.
type RefreshTickMsg struct {
	At time.Time
}
