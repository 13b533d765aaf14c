package boundary

import (
	"fmt"
	"time"
)

// Date is a proleptic Gregorian calendar date with no time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a time of day. It also serves as the interval overlaid onto a
// computed boundary.
type Clock struct {
	Hour, Minute, Second int
	Nanosecond           int
}

// DateTime is a naive date and time of day.
type DateTime struct {
	Date
	Clock
}

// Midnight is the zero Clock.
var Midnight Clock

// FromTime returns the wall clock fields of t in its own location.
func FromTime(t time.Time) DateTime {
	y, m, d := t.Date()
	return DateTime{
		Date:  Date{y, m, d},
		Clock: Clock{t.Hour(), t.Minute(), t.Second(), t.Nanosecond()},
	}
}

// At returns d at clock c.
func (d Date) At(c Clock) DateTime { return DateTime{d, c} }

// Time returns d at midnight UTC.
func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// AddDays returns d moved n days, normalizing across months and years.
func (d Date) AddDays(n int) Date { return FromTime(d.Time().AddDate(0, 0, n)).Date }

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) YearDay() int { return d.Time().YearDay() }

// ISOWeek returns the ISO 8601 week-based year and week of d.
func (d Date) ISOWeek() (year, week int) { return d.Time().ISOWeek() }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Time returns d as a UTC instant, which orders naive values correctly.
func (d DateTime) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, d.Nanosecond, time.UTC)
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d DateTime) Compare(o DateTime) int { return d.Time().Compare(o.Time()) }

func (d DateTime) String() string { return d.Date.String() + " " + d.Clock.String() }

// daysIn returns the number of days in month m of year y.
func daysIn(m time.Month, y int) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
