package boundary

import (
	"fmt"
	"time"
)

// Boundary returns the first or last day of the period of unit u containing
// d. Every unit but Day yields midnight; Day returns d unchanged, clock
// included.
func Boundary(u Unit, v Variant, d DateTime) DateTime {
	switch u {
	case Day:
		return d
	case Week:
		return weekBoundary(v, d.Date).At(Midnight)
	case Month:
		return monthBoundary(v, d.Date).At(Midnight)
	case Quarter:
		return quarterBoundary(v, d.Date).At(Midnight)
	case Year:
		return yearBoundary(v, d.Date).At(Midnight)
	}
	panic(fmt.Sprintf("boundary: unknown unit %v", u))
}

// weekBoundary uses ISO weeks: Monday through Sunday.
func weekBoundary(v Variant, d Date) Date {
	monday := d.AddDays(-((int(d.Weekday()) + 6) % 7))
	switch v {
	case FirstDay:
		return monday
	case LastDay:
		return monday.AddDays(6)
	}
	panic(fmt.Sprintf("boundary: unknown variant %v", v))
}

func monthBoundary(v Variant, d Date) Date {
	switch v {
	case FirstDay:
		return Date{d.Year, d.Month, 1}
	case LastDay:
		return Date{d.Year, d.Month, daysIn(d.Month, d.Year)}
	}
	panic(fmt.Sprintf("boundary: unknown variant %v", v))
}

// quarterBoundary finds the last day as the day before the next quarter
// begins, so December rolls into the following year.
func quarterBoundary(v Variant, d Date) Date {
	first := Date{d.Year, time.Month(3*QuarterOf(d.Month) + 1), 1}
	switch v {
	case FirstDay:
		return first
	case LastDay:
		next := FromTime(time.Date(first.Year, first.Month+3, 1, 0, 0, 0, 0, time.UTC)).Date
		return next.AddDays(-1)
	}
	panic(fmt.Sprintf("boundary: unknown variant %v", v))
}

func yearBoundary(v Variant, d Date) Date {
	switch v {
	case FirstDay:
		return Date{d.Year, time.January, 1}
	case LastDay:
		return Date{d.Year, time.December, 31}
	}
	panic(fmt.Sprintf("boundary: unknown variant %v", v))
}

// QuarterOf returns the 0-based quarter index of m.
func QuarterOf(m time.Month) int {
	return (int(m) - 1) / 3
}

// Overlay applies the interval to a computed boundary. Without include the
// value is returned as is. With include but no interval the value keeps its
// own hour, minute and second.
func Overlay(d DateTime, include bool, interval *Clock) DateTime {
	if !include {
		return d
	}
	c := Clock{Hour: d.Hour, Minute: d.Minute, Second: d.Second}
	if interval != nil {
		c = Clock{Hour: interval.Hour, Minute: interval.Minute, Second: interval.Second}
	}
	return d.Date.At(c)
}
