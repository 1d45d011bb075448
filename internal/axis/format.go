package axis

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// roundHalfAway formats v with no decimals, rounding halves away from zero.
func roundHalfAway(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// FormatAxisDuration renders an axis tick label such as "2d" or "500ms".
//
// Zero is always "0". With UnitAuto the unit is derived from the value
// itself. The scaled value is rounded to a whole number, so 1500 with no
// unit reads "2s".
func FormatAxisDuration(valueMs float64, unit Unit) string {
	if valueMs == 0 {
		return "0"
	}
	if unit == UnitAuto {
		unit = Categorize(valueMs)
	}
	return roundHalfAway(valueMs/unit.Millis()) + unit.Abbrev()
}

// FormatDuration renders a readout for tooltips and legends. It keeps up to
// precision decimals and groups thousands, e.g. "1,234.5min".
func FormatDuration(valueMs float64, unit Unit, precision int) string {
	if unit == UnitAuto {
		unit = Categorize(valueMs)
	}
	if precision < 0 {
		precision = 0
	}

	scaled := valueMs / unit.Millis()
	if !math.IsNaN(scaled) && !math.IsInf(scaled, 0) {
		pow := math.Pow(10, float64(precision))
		scaled = math.Round(scaled*pow) / pow
	}
	return humanize.CommafWithDigits(scaled, precision) + unit.Abbrev()
}
