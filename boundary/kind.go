package boundary

import (
	"fmt"
	"reflect"
	"time"
)

// Kind is the category of an argument as declared by the host, before any
// value is available.
type Kind int

const (
	Other Kind = iota
	Text
	DateKind
	DateTimeKind
	Bool
	Int
	Float
	TimeOfDay
)

var kindNames = [...]string{
	Other:        "other",
	Text:         "string",
	DateKind:     "date",
	DateTimeKind: "timestamp",
	Bool:         "boolean",
	Int:          "int",
	Float:        "double",
	TimeOfDay:    "time",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valuer is implemented by host types that carry a date, timestamp or time of
// day in their own representation.
type Valuer interface {
	BoundaryKind() Kind
	// BoundaryValue returns a Date, DateTime, time.Time or time.Duration.
	BoundaryValue() any
}

var (
	valuerType   = reflect.TypeFor[Valuer]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	dateType     = reflect.TypeFor[Date]()
	dateTimeType = reflect.TypeFor[DateTime]()
)

// KindFor returns the kind values of type t have. Pointers are reported as
// their element type, since a nil pointer is a null of that kind. Interface
// types report Other: their kind is only known from a value.
func KindFor(t reflect.Type) Kind {
	if t == nil {
		return Other
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Interface && t.Implements(valuerType) {
		return reflect.Zero(t).Interface().(Valuer).BoundaryKind()
	}
	switch t {
	case timeType, dateTimeType:
		return DateTimeKind
	case dateType:
		return DateKind
	case durationType:
		return TimeOfDay
	}
	switch t.Kind() {
	case reflect.String:
		return Text
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Text
		}
		return Other
	default:
		return Other
	}
}

// KindOf returns the kind of v, or Other for nil. A nil pointer has the kind
// of its element type.
func KindOf(v any) Kind {
	if v == nil {
		return Other
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return KindFor(rv.Type())
	}
	if kv, ok := v.(Valuer); ok {
		return kv.BoundaryKind()
	}
	return KindFor(reflect.TypeOf(v))
}
