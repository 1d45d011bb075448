package axis

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		ms   float64
		want Unit
	}{
		{0, Millisecond},
		{999, Millisecond},
		{1000, Second},
		{59999, Second},
		{60000, Minute},
		{3599999, Minute},
		{3600000, Hour},
		{86400000, Day},
		{604800000, Week},
		{1e15, Week},
		{-5000, Millisecond},
		{math.NaN(), Millisecond},
	}
	for _, tt := range tests {
		if got := Categorize(tt.ms); got != tt.want {
			t.Errorf("Categorize(%v) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestCategorize_Monotonic(t *testing.T) {
	var inputs []float64
	for v := 1.0; v < 1e10; v *= 1.7 {
		inputs = append(inputs, v, v-1, v+1)
	}
	inputs = append(inputs, 0, 1000, 60000, 3600000, 86400000, 604800000)
	sort.Float64s(inputs)

	prev := Categorize(inputs[0]).Millis()
	for _, v := range inputs[1:] {
		cur := Categorize(v).Millis()
		if cur < prev {
			t.Fatalf("Categorize(%v) = %v ms is finer than a smaller input (%v ms)", v, cur, prev)
		}
		prev = cur
	}
}

func TestUnit_Table(t *testing.T) {
	tests := []struct {
		unit   Unit
		millis float64
		abbrev string
	}{
		{Millisecond, 1, "ms"},
		{Second, 1000, "s"},
		{Minute, 60000, "min"},
		{Hour, 3600000, "hr"},
		{Day, 86400000, "d"},
		{Week, 604800000, "wk"},
		{UnitAuto, 1, "ms"},
		{Unit(42), 1, "ms"},
	}
	for _, tt := range tests {
		if got := tt.unit.Millis(); got != tt.millis {
			t.Errorf("%v.Millis() = %v, want %v", tt.unit, got, tt.millis)
		}
		if got := tt.unit.Abbrev(); got != tt.abbrev {
			t.Errorf("%v.Abbrev() = %q, want %q", tt.unit, got, tt.abbrev)
		}
	}

	units := Units()
	if len(units) != 6 || units[0] != Week || units[5] != Millisecond {
		t.Errorf("Units() = %v", units)
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"ms", Millisecond},
		{"s", Second},
		{"Seconds", Second},
		{"min", Minute},
		{"hr", Hour},
		{"hours", Hour},
		{"d", Day},
		{"wk", Week},
		{"week", Week},
		{"", UnitAuto},
		{" auto ", UnitAuto},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if err != nil {
			t.Errorf("ParseUnit(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseUnit("fortnight"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
