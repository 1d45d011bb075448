package metrics

import (
	"math"
	"time"
)

// DataPoint is a single duration sample. Value is in milliseconds.
type DataPoint struct {
	Timestamp time.Time
	Value     float64
}

// IsValid reports whether the point can be stored or plotted.
// Points with a zero timestamp, Inf or NaN are rejected.
func (dp DataPoint) IsValid() bool {
	if dp.Timestamp.IsZero() {
		return false
	}
	return !math.IsInf(dp.Value, 0) && !math.IsNaN(dp.Value)
}

// NewDataPoint creates a point stamped with the current time.
func NewDataPoint(valueMs float64) DataPoint {
	return DataPoint{Timestamp: time.Now(), Value: valueMs}
}

// NewDataPointAt creates a point at the given time.
func NewDataPointAt(timestamp time.Time, valueMs float64) DataPoint {
	return DataPoint{Timestamp: timestamp, Value: valueMs}
}
