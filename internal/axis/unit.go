// Package axis picks and formats duration units for chart axes.
//
// All values are milliseconds. A chart plotting several series shares one
// Unit so that its tick labels never mix "ms" and "s". The functions here
// are pure and safe for concurrent use.
package axis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned by ParseUnit.
var ErrUnknownUnit = errors.New("unknown duration unit")

// Unit is a duration magnitude used to scale and label an axis.
// The zero value, UnitAuto, means no unit was chosen.
type Unit int

const (
	UnitAuto Unit = iota
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
)

type unitInfo struct {
	unit   Unit
	millis float64
	abbrev string
	names  []string
}

// unitTable is ordered coarsest first.
var unitTable = [...]unitInfo{
	{Week, 604800000, "wk", []string{"week", "weeks", "w"}},
	{Day, 86400000, "d", []string{"day", "days"}},
	{Hour, 3600000, "hr", []string{"hour", "hours", "h"}},
	{Minute, 60000, "min", []string{"minute", "minutes", "m"}},
	{Second, 1000, "s", []string{"second", "seconds", "sec"}},
	{Millisecond, 1, "ms", []string{"millisecond", "milliseconds"}},
}

func (u Unit) info() (unitInfo, bool) {
	for _, ui := range unitTable {
		if ui.unit == u {
			return ui, true
		}
	}
	return unitInfo{}, false
}

// Millis returns the number of milliseconds in one u. UnitAuto and
// unknown units return 1.
func (u Unit) Millis() float64 {
	if ui, ok := u.info(); ok {
		return ui.millis
	}
	return 1
}

// Abbrev returns the label suffix: "wk", "d", "hr", "min", "s" or "ms".
// UnitAuto and unknown units return "ms".
func (u Unit) Abbrev() string {
	if ui, ok := u.info(); ok {
		return ui.abbrev
	}
	return "ms"
}

func (u Unit) String() string {
	if u == UnitAuto {
		return "auto"
	}
	return u.Abbrev()
}

// Units returns every concrete unit, coarsest first.
func Units() []Unit {
	out := make([]Unit, len(unitTable))
	for i, ui := range unitTable {
		out[i] = ui.unit
	}
	return out
}

// ParseUnit accepts an abbreviation ("hr"), a long name ("hours") or
// "auto". Matching is case-insensitive.
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "auto" {
		return UnitAuto, nil
	}
	for _, ui := range unitTable {
		if ui.abbrev == name {
			return ui.unit, nil
		}
		for _, alias := range ui.names {
			if alias == name {
				return ui.unit, nil
			}
		}
	}
	return UnitAuto, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Categorize returns the coarsest unit whose length valueMs meets or
// exceeds. Anything under one second, including negative and NaN input,
// is Millisecond.
func Categorize(valueMs float64) Unit {
	for _, ui := range unitTable[:len(unitTable)-1] {
		if valueMs >= ui.millis {
			return ui.unit
		}
	}
	return Millisecond
}
