package boundary

import (
	"strconv"
	"strings"
)

// Unit is the calendar period a boundary is computed for.
type Unit int

const (
	Day Unit = iota + 1
	Week
	Month
	Quarter
	Year
)

var unitNames = []struct {
	name string
	unit Unit
}{
	{"DAY", Day},
	{"WEEK", Week},
	{"MONTH", Month},
	{"QUARTER", Quarter},
	{"YEAR", Year},
}

// ParseUnit accepts the unit names case-insensitively, ignoring surrounding
// white space.
func ParseUnit(s string) (Unit, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, n := range unitNames {
		if n.name == name {
			return n.unit, nil
		}
	}
	return 0, UnitValueError{s}
}

func (u Unit) String() string {
	for _, n := range unitNames {
		if n.unit == u {
			return n.name
		}
	}
	return "Unit(" + strconv.Itoa(int(u)) + ")"
}

// Variant selects which edge of the period is computed.
type Variant int

const (
	FirstDay Variant = iota + 1
	LastDay
)

func (v Variant) String() string {
	switch v {
	case FirstDay:
		return "first"
	case LastDay:
		return "last"
	}
	return "Variant(" + strconv.Itoa(int(v)) + ")"
}
