package metrics

import (
	"math"
	"sort"

	"github.com/VividCortex/ewma"
)

// Series is a named, chronologically ordered sequence of duration points.
type Series struct {
	Name string
	Data []DataPoint
}

// NewSeries builds a series from raw millisecond values. The points carry
// no timestamps.
func NewSeries(name string, valuesMs []float64) Series {
	s := Series{Name: name, Data: make([]DataPoint, len(valuesMs))}
	for i, v := range valuesMs {
		s.Data[i] = DataPoint{Value: v}
	}
	return s
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Data)
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	if len(s.Data) == 0 {
		return nil
	}
	out := make([]float64, len(s.Data))
	for i, dp := range s.Data {
		out[i] = dp.Value
	}
	return out
}

// Peak returns the largest value in the series, ignoring NaN.
// An empty series peaks at 0.
func (s Series) Peak() float64 {
	peak := 0.0
	seen := false
	for _, dp := range s.Data {
		if math.IsNaN(dp.Value) {
			continue
		}
		if !seen || dp.Value > peak {
			peak = dp.Value
			seen = true
		}
	}
	return peak
}

// Smoothed returns a copy whose values are an exponentially weighted moving
// average over roughly age samples. While the average is warming up the raw
// value is kept.
func (s Series) Smoothed(age float64) Series {
	out := Series{Name: s.Name, Data: make([]DataPoint, len(s.Data))}
	if age < 1 {
		copy(out.Data, s.Data)
		return out
	}
	avg := ewma.NewMovingAverage(age)
	for i, dp := range s.Data {
		avg.Add(dp.Value)
		v := avg.Value()
		if v == 0 {
			v = dp.Value
		}
		out.Data[i] = DataPoint{Timestamp: dp.Timestamp, Value: v}
	}
	return out
}

// SortByMagnitude orders series by descending peak so the first series
// carries the highest values. Ties keep their input order.
func SortByMagnitude(series []Series) {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Peak() > series[j].Peak()
	})
}

// Names returns the series names in order.
func Names(series []Series) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return names
}
