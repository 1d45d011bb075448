package axis

import (
	"errors"
	"fmt"
	"math"

	"github.com/willibrandon/tickwise/internal/metrics"
)

// ErrUnsorted is reported by CheckDescending.
var ErrUnsorted = errors.New("series not in descending order")

// Legend maps series names to their visibility. Names without an entry are
// visible, and so is everything in a nil Legend.
type Legend map[string]bool

// Visible reports whether name should be plotted.
func (l Legend) Visible(name string) bool {
	shown, ok := l[name]
	return !ok || shown
}

// Hidden returns a Legend with every given name switched off.
func Hidden(names ...string) Legend {
	l := make(Legend, len(names))
	for _, n := range names {
		l[n] = false
	}
	return l
}

// Range is the value envelope across the visible series of a chart.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// FindRange estimates the visible value envelope of series.
//
// series must be sorted by descending magnitude (see
// metrics.SortByMagnitude). The first visible non-empty series sets Max and
// the last one sets Min, so only two series are scanned. Zero values are
// treated as missing data and ignored in both reductions. A series with no
// other values contributes a bound of 0 rather than an infinite one, so an
// all-zero series never produces an unbounded axis.
//
// The second result is false when series is empty, when series[0] has no
// points, or when no series is both visible and non-empty.
func FindRange(series []metrics.Series, legend Legend) (Range, bool) {
	if len(series) == 0 || len(series[0].Data) == 0 {
		return Range{}, false
	}

	minIdx, maxIdx := -1, -1
	for i, s := range series {
		if !legend.Visible(s.Name) || len(s.Data) == 0 {
			continue
		}
		minIdx = i
		if maxIdx < 0 {
			maxIdx = i
		}
	}
	if maxIdx < 0 {
		return Range{}, false
	}

	return Range{
		Max: reduce(series[maxIdx], math.Max),
		Min: reduce(series[minIdx], math.Min),
	}, true
}

// reduce folds the non-zero, non-NaN values of s with pick.
func reduce(s metrics.Series, pick func(a, b float64) float64) float64 {
	acc, seen := 0.0, false
	for _, dp := range s.Data {
		if dp.Value == 0 || math.IsNaN(dp.Value) {
			continue
		}
		if !seen {
			acc, seen = dp.Value, true
			continue
		}
		acc = pick(acc, dp.Value)
	}
	return acc
}

// CheckDescending returns an error wrapping ErrUnsorted when a series
// peaks higher than the one before it.
func CheckDescending(series []metrics.Series) error {
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Peak(), series[i].Peak()
		if cur > prev {
			return fmt.Errorf("%w: %q (peak %g) follows %q (peak %g)",
				ErrUnsorted, series[i].Name, cur, series[i-1].Name, prev)
		}
	}
	return nil
}
