package axis

// Tick is one labelled position on a duration axis.
type Tick struct {
	Value float64
	Label string
}

// Ticks spreads n ticks evenly from r.Min to r.Max and labels them with a
// shared unit. A degenerate range yields a single tick.
func Ticks(r Range, n int, unit Unit) []Tick {
	if n < 2 || r.Span() == 0 {
		return []Tick{{Value: r.Max, Label: FormatAxisDuration(r.Max, unit)}}
	}

	step := r.Span() / float64(n-1)
	ticks := make([]Tick, n)
	for i := range ticks {
		v := r.Min + step*float64(i)
		if i == n-1 {
			v = r.Max
		}
		ticks[i] = Tick{Value: v, Label: FormatAxisDuration(v, unit)}
	}
	return ticks
}

// Labels returns just the tick labels.
func Labels(ticks []Tick) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = t.Label
	}
	return out
}
