package boundary

import (
	"fmt"
	"strconv"
)

const usage = "invalid function usage: correct usage is %s(<string> unit, <string/timestamp/date> date, " +
	"<string> input_format [optional], <string> output_format [optional], " +
	"<boolean> include_interval [optional], <string> interval [optional])"

// ArityError reports a call with fewer than 2 or more than 6 arguments.
type ArityError struct {
	Func string
	Got  int
}

func (e ArityError) Error() string {
	return fmt.Sprintf(usage, e.Func)
}

// TypeError reports an argument whose declared kind is not accepted at its
// position. It is raised before any value is read.
type TypeError struct {
	Param    string
	Position int // 1-based
	Want     string
	Got      Kind
}

func (e TypeError) Error() string {
	return fmt.Sprintf("only %s is accepted for %s parameter but %s is passed as %s argument",
		e.Want, e.Param, e.Got, ordinal(e.Position))
}

// NullArgumentError reports a null value for a bound parameter.
type NullArgumentError struct {
	Param string
}

func (e NullArgumentError) Error() string {
	return e.Param + " cannot be null"
}

// UnitValueError reports unit text that names none of the calendar units.
type UnitValueError struct {
	Value string
}

func (e UnitValueError) Error() string {
	return "unit " + strconv.Quote(e.Value) + " can only be one of DAY, WEEK, MONTH, QUARTER, YEAR"
}

// FormatError reports a malformed or out of range interval. Field is empty
// when the text does not have the HH:MM:SS shape, otherwise it names the
// first field found out of range.
type FormatError struct {
	Value  string
	Field  string
	Reason string
}

func (e FormatError) Error() string {
	return "interval " + strconv.Quote(e.Value) + ": " + e.Reason
}

// PatternError reports a date pattern that cannot be used for parsing or
// rendering.
type PatternError struct {
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return "pattern " + strconv.Quote(e.Pattern) + ": " + e.Err.Error()
}

func (e PatternError) Unwrap() error { return e.Err }

var ordinals = [...]string{"zeroth", "first", "second", "third", "fourth", "fifth", "sixth"}

func ordinal(n int) string {
	if n >= 0 && n < len(ordinals) {
		return ordinals[n]
	}
	return "#" + strconv.Itoa(n)
}
