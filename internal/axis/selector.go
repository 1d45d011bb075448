package axis

import "github.com/willibrandon/tickwise/internal/metrics"

// maxLabelDigits is the widest whole-number tick label allowed before the
// unit is coarsened.
const maxLabelDigits = 6

// targetTicks is the number of ticks a chart axis is expected to carry.
const targetTicks = 5

// SelectDurationUnit picks one unit for every series plotted together.
//
// The unit is sized so that roughly five ticks span the visible range. If
// the midpoint of the range would then need more than six digits, the unit
// is re-derived from the midpoint instead. Without a range the result is
// Millisecond.
func SelectDurationUnit(series []metrics.Series, legend Legend) Unit {
	r, ok := FindRange(series, legend)
	if !ok {
		return Millisecond
	}
	return UnitForRange(r)
}

// UnitForRange applies the SelectDurationUnit heuristic to a known range.
func UnitForRange(r Range) Unit {
	avg := (r.Max + r.Min) / 2
	unit := Categorize(r.Span() / targetTicks)
	if len(roundHalfAway(avg/unit.Millis())) > maxLabelDigits {
		unit = Categorize(avg)
	}
	return unit
}
