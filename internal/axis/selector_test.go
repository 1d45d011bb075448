package axis

import (
	"testing"

	"github.com/willibrandon/tickwise/internal/metrics"
)

func TestUnitForRange(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want Unit
	}{
		// Span/5 = 1.2e8 ms (days); the midpoint is ~3.5d, one digit.
		{"wide range", Range{Min: 0, Max: 600000000}, Day},
		// Span/5 = 1s but the midpoint is 1,000,003s: seven digits, so the
		// midpoint itself decides.
		{"narrow band at a large offset", Range{Min: 1e9, Max: 1e9 + 5000}, Week},
		// Midpoint 500,500ms is exactly six digits and stays in ms.
		{"six digits kept", Range{Min: 500000, Max: 501000}, Millisecond},
		{"seven digits coarsened", Range{Min: 999000, Max: 1001000}, Minute},
		{"degenerate range", Range{Min: 5000, Max: 5000}, Millisecond},
		{"minutes", Range{Min: 60000, Max: 7200000}, Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitForRange(tt.r); got != tt.want {
				t.Errorf("UnitForRange(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestSelectDurationUnit(t *testing.T) {
	in := []metrics.Series{
		series("p99", 7200000, 3600000),
		series("p50", 60000, 90000),
	}

	if got := SelectDurationUnit(in, nil); got != Minute {
		t.Errorf("all visible: got %v, want min", got)
	}
	// With p99 hidden the range collapses onto p50 alone.
	if got := SelectDurationUnit(in, Hidden("p99")); got != Second {
		t.Errorf("p99 hidden: got %v, want s", got)
	}
}

func TestSelectDurationUnit_NoRange(t *testing.T) {
	if got := SelectDurationUnit(nil, nil); got != Millisecond {
		t.Errorf("got %v, want ms", got)
	}
	empty := []metrics.Series{series("A")}
	if got := SelectDurationUnit(empty, nil); got != Millisecond {
		t.Errorf("got %v, want ms", got)
	}
}

func TestSelectDurationUnit_SharedAcrossSeries(t *testing.T) {
	in := []metrics.Series{
		series("slow", 45000, 52000, 61000),
		series("fast", 800, 1200, 950),
	}
	unit := SelectDurationUnit(in, nil)
	r, _ := FindRange(in, nil)

	seen := map[string]bool{}
	for _, tick := range Ticks(r, 5, unit) {
		label := tick.Label
		for i := len(label) - 1; i >= 0; i-- {
			if label[i] >= '0' && label[i] <= '9' {
				seen[label[i+1:]] = true
				break
			}
		}
	}
	if len(seen) != 1 || !seen[unit.Abbrev()] {
		t.Errorf("expected every tick in %q, saw suffixes %v", unit.Abbrev(), seen)
	}
}

func TestTicks(t *testing.T) {
	got := Labels(Ticks(Range{Min: 0, Max: 4000}, 5, Second))
	want := []string{"0", "1s", "2s", "3s", "4s"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ticks = %v, want %v", got, want)
		}
	}

	single := Ticks(Range{Min: 3000, Max: 3000}, 5, Second)
	if len(single) != 1 || single[0].Label != "3s" {
		t.Errorf("degenerate range: %+v", single)
	}
	if one := Ticks(Range{Min: 0, Max: 10}, 1, Millisecond); len(one) != 1 || one[0].Value != 10 {
		t.Errorf("n=1: %+v", one)
	}
}
