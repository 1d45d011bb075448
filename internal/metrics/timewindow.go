// Package metrics holds the duration series data model: points, named
// series, ring buffers for live collection and query time windows.
package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownWindow is returned by ParseTimeWindow for unrecognised labels.
var ErrUnknownWindow = errors.New("unknown time window")

// TimeWindow is a look-back range used when reading stored series.
type TimeWindow int

const (
	TimeWindow1m TimeWindow = iota
	TimeWindow5m
	TimeWindow15m
	TimeWindow1h
	TimeWindow24h
	TimeWindow7d
)

// Duration returns the length of the window.
func (tw TimeWindow) Duration() time.Duration {
	switch tw {
	case TimeWindow5m:
		return 5 * time.Minute
	case TimeWindow15m:
		return 15 * time.Minute
	case TimeWindow1h:
		return time.Hour
	case TimeWindow24h:
		return 24 * time.Hour
	case TimeWindow7d:
		return 7 * 24 * time.Hour
	default:
		return time.Minute
	}
}

// Granularity returns the bucket size used when aggregating the window.
// Windows up to 5m keep 1s resolution, 15m and 1h use 10s buckets,
// 24h uses 1m and 7d uses 10m.
func (tw TimeWindow) Granularity() time.Duration {
	switch tw {
	case TimeWindow15m, TimeWindow1h:
		return 10 * time.Second
	case TimeWindow24h:
		return time.Minute
	case TimeWindow7d:
		return 10 * time.Minute
	default:
		return time.Second
	}
}

// NeedsAggregation reports whether raw rows should be averaged into
// Granularity buckets before plotting.
func (tw TimeWindow) NeedsAggregation() bool {
	return tw >= TimeWindow24h
}

// Since returns the start of the window ending at now.
func (tw TimeWindow) Since(now time.Time) time.Time {
	return now.Add(-tw.Duration())
}

// String returns the display label.
func (tw TimeWindow) String() string {
	switch tw {
	case TimeWindow5m:
		return "5m"
	case TimeWindow15m:
		return "15m"
	case TimeWindow1h:
		return "1h"
	case TimeWindow24h:
		return "24h"
	case TimeWindow7d:
		return "7d"
	default:
		return "1m"
	}
}

// ParseTimeWindow converts a label such as "1h" or "7d" into a TimeWindow.
func ParseTimeWindow(s string) (TimeWindow, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	for _, tw := range AllTimeWindows() {
		if tw.String() == label {
			return tw, nil
		}
	}
	return TimeWindow1m, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
}

// AllTimeWindows returns every window, shortest first.
func AllTimeWindows() []TimeWindow {
	return []TimeWindow{
		TimeWindow1m,
		TimeWindow5m,
		TimeWindow15m,
		TimeWindow1h,
		TimeWindow24h,
		TimeWindow7d,
	}
}
