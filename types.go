package main

import (
	"time"

	"github.com/mutility/datebound/boundary"
)

// Logical parquet values, kept in their physical integer form. Timestamps
// are naive: their wall clock is read in UTC whether or not the column is
// adjusted to UTC.
type (
	Date       int32
	TimeMilli  int64
	TimeMicro  int64
	TimeNano   int64
	StampMilli int64
	StampMicro int64
	StampNano  int64
)

const (
	rfc3339Nano  = "2006-01-02T15:04:05.999999999Z07:00"
	rfc3339Micro = "2006-01-02T15:04:05.999999Z07:00"
	rfc3339Milli = "2006-01-02T15:04:05.999Z07:00"
	clockNano    = "15:04:05.999999999"
	clockMicro   = "15:04:05.999999"
	clockMilli   = "15:04:05.999"
)

type epochValue interface {
	~int32 | ~int64
	offset() time.Duration
	layout() string
}

func epochTime(offset time.Duration) time.Time {
	return time.Unix(0, 0).UTC().Add(offset)
}

func epochString[T epochValue](t T) string {
	return epochTime(t.offset()).Format(t.layout())
}

func marshalEpoch[T epochValue](t T) ([]byte, error) {
	return epochTime(t.offset()).AppendFormat(nil, t.layout()), nil
}

func (t Date) String() string       { return epochString(t) }
func (t TimeMilli) String() string  { return epochString(t) }
func (t TimeMicro) String() string  { return epochString(t) }
func (t TimeNano) String() string   { return epochString(t) }
func (t StampMilli) String() string { return epochString(t) }
func (t StampMicro) String() string { return epochString(t) }
func (t StampNano) String() string  { return epochString(t) }

func (t Date) MarshalText() ([]byte, error)       { return marshalEpoch(t) }
func (t TimeMilli) MarshalText() ([]byte, error)  { return marshalEpoch(t) }
func (t TimeMicro) MarshalText() ([]byte, error)  { return marshalEpoch(t) }
func (t TimeNano) MarshalText() ([]byte, error)   { return marshalEpoch(t) }
func (t StampMilli) MarshalText() ([]byte, error) { return marshalEpoch(t) }
func (t StampMicro) MarshalText() ([]byte, error) { return marshalEpoch(t) }
func (t StampNano) MarshalText() ([]byte, error)  { return marshalEpoch(t) }

func (t Date) offset() time.Duration       { return time.Duration(t) * t.unit() }
func (t TimeMilli) offset() time.Duration  { return time.Duration(t) * t.unit() }
func (t TimeMicro) offset() time.Duration  { return time.Duration(t) * t.unit() }
func (t TimeNano) offset() time.Duration   { return time.Duration(t) * t.unit() }
func (t StampMilli) offset() time.Duration { return time.Duration(t) * t.unit() }
func (t StampMicro) offset() time.Duration { return time.Duration(t) * t.unit() }
func (t StampNano) offset() time.Duration  { return time.Duration(t) * t.unit() }

func (Date) unit() time.Duration       { return 24 * time.Hour }
func (TimeMilli) unit() time.Duration  { return time.Millisecond }
func (TimeMicro) unit() time.Duration  { return time.Microsecond }
func (TimeNano) unit() time.Duration   { return time.Nanosecond }
func (StampMilli) unit() time.Duration { return time.Millisecond }
func (StampMicro) unit() time.Duration { return time.Microsecond }
func (StampNano) unit() time.Duration  { return time.Nanosecond }

func (Date) layout() string       { return time.DateOnly }
func (TimeMilli) layout() string  { return clockMilli }
func (TimeMicro) layout() string  { return clockMicro }
func (TimeNano) layout() string   { return clockNano }
func (StampMilli) layout() string { return rfc3339Milli }
func (StampMicro) layout() string { return rfc3339Micro }
func (StampNano) layout() string  { return rfc3339Nano }

func (Date) BoundaryKind() boundary.Kind       { return boundary.DateKind }
func (TimeMilli) BoundaryKind() boundary.Kind  { return boundary.TimeOfDay }
func (TimeMicro) BoundaryKind() boundary.Kind  { return boundary.TimeOfDay }
func (TimeNano) BoundaryKind() boundary.Kind   { return boundary.TimeOfDay }
func (StampMilli) BoundaryKind() boundary.Kind { return boundary.DateTimeKind }
func (StampMicro) BoundaryKind() boundary.Kind { return boundary.DateTimeKind }
func (StampNano) BoundaryKind() boundary.Kind  { return boundary.DateTimeKind }

func (t Date) BoundaryValue() any       { return boundary.FromTime(epochTime(t.offset())).Date }
func (t TimeMilli) BoundaryValue() any  { return t.offset() }
func (t TimeMicro) BoundaryValue() any  { return t.offset() }
func (t TimeNano) BoundaryValue() any   { return t.offset() }
func (t StampMilli) BoundaryValue() any { return boundary.FromTime(epochTime(t.offset())) }
func (t StampMicro) BoundaryValue() any { return boundary.FromTime(epochTime(t.offset())) }
func (t StampNano) BoundaryValue() any  { return boundary.FromTime(epochTime(t.offset())) }
