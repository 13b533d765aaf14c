package boundary

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var callTests = []struct {
	Name string
	Func *Func
	Args []any
	Want string
}{
	{"quarter", FirstDayOf, []any{"QUARTER", "22-01-2011", "dd-MM-yyyy"}, "2011-01-01"},
	{"week", LastDayOf, []any{"WEEK", "2011-01-22"}, "2011-01-23"},
	{"quarter first", FirstDayOf, []any{"QUARTER", "1986-08-02"}, "1986-07-01"},
	{"quarter last", LastDayOf, []any{"QUARTER", "1986-08-02"}, "1986-09-30"},
	{"q4 last", LastDayOf, []any{"quarter", "2011-11-05"}, "2011-12-31"},
	{"leap month", LastDayOf, []any{"month", "2012-02-10"}, "2012-02-29"},
	{"trimmed unit", FirstDayOf, []any{" Year ", "1983-07-18"}, "1983-01-01"},
	{"output format", LastDayOf, []any{"YEAR", "02-08-2011", "dd-MM-yyyy", "dd/MM/yyyy"}, "31/12/2011"},
	{"interval", FirstDayOf, []any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", true, "23:22:22"}, "2011-01-22 23:22:22"},
	{"interval minutes", FirstDayOf, []any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd HH:mm", true, "23:22:22"}, "2011-01-22 23:22"},
	{"interval ignored", FirstDayOf, []any{"MONTH", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", false, "23:22:22"}, "2011-01-01"},
	{"empty formats", FirstDayOf, []any{"MONTH", "2011-01-22", "", "", true, "01:02:03"}, "2011-01-01 01:02:03"},
	{"no interval", FirstDayOf, []any{"QUARTER", "22-01-2011", "dd-MM-yyyy", "yyyy-MM-dd", true}, "2011-01-01 00:00:00"},
	{"date", LastDayOf, []any{"MONTH", Date{2011, time.February, 14}}, "2011-02-28"},
	{"timestamp", FirstDayOf, []any{"DAY", time.Date(2011, 1, 22, 23, 22, 22, 5, time.UTC), "yyyy-MM-dd", "yyyy-MM-dd", true}, "2011-01-22 23:22:22"},
	{"timestamp week", FirstDayOf, []any{"WEEK", time.Date(2011, 1, 22, 23, 22, 22, 0, time.UTC), "", "yyyy-MM-dd HH:mm"}, "2011-01-17 00:00"},
	{"valuer", LastDayOf, []any{"WEEK", epochDays(14996)}, "2011-01-23"},
	{"bytes", FirstDayOf, []any{[]byte("MONTH"), []byte("2011-01-22")}, "2011-01-01"},
	{"pointer", FirstDayOf, []any{"YEAR", ptr("2011-01-22")}, "2011-01-01"},
	{"rolled over date", FirstDayOf, []any{"DAY", "2011-02-30"}, "2011-03-02"},
	{"iso week output", LastDayOf, []any{"WEEK", "2011-01-22", "yyyy-MM-dd", "YYYY-'W'ww"}, "2011-W03"},
	{"iso week input", FirstDayOf, []any{"MONTH", "2011-W05-3", "YYYY-'W'ww-e"}, "2011-02-01"},
	{"named string", FirstDayOf, []any{unitName("WEEK"), unitName("2011-01-22")}, "2011-01-17"},
	{"named bool", FirstDayOf, []any{"DAY", "2011-01-22", "", "", toggle(true), unitName("10:00:00")}, "2011-01-22 10:00:00"},
}

func TestCall(t *testing.T) {
	for _, tt := range callTests {
		t.Run(tt.Name, func(t *testing.T) {
			got, ok, err := tt.Func.Call(tt.Args...)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.Want, got)
		})
	}
}

// epochDays is a date stored as days since 1970-01-01.
type epochDays int32

func (d epochDays) BoundaryKind() Kind { return DateKind }

func (d epochDays) BoundaryValue() any { return Date{1970, time.January, 1}.AddDays(int(d)) }

func ptr[T any](v T) *T { return &v }

type (
	unitName string
	toggle   bool
)

func TestCallUnparsable(t *testing.T) {
	for _, in := range []string{"22/01/2011", "2011/02/03", "", "not a date"} {
		got, ok, err := FirstDayOf.Call("DAY", in)
		assert.NoError(t, err, in)
		assert.False(t, ok, in)
		assert.Empty(t, got, in)
	}
}

func TestCallArity(t *testing.T) {
	_, _, err := FirstDayOf.Call("DAY")
	var arity ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, ArityError{"first_day_of", 1}, arity)
	assert.Contains(t, err.Error(), "correct usage is first_day_of(<string> unit")

	_, _, err = LastDayOf.Call("DAY", "2011-01-22", "", "", false, "00:00:00", "extra")
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 7, arity.Got)
	assert.Contains(t, err.Error(), "last_day_of(")
}

func TestPrepareTypes(t *testing.T) {
	tests := []struct {
		Kinds []Kind
		Want  TypeError
	}{
		{[]Kind{Int, Text}, TypeError{"unit", 1, "string", Int}},
		{[]Kind{Int, Int}, TypeError{"unit", 1, "string", Int}},
		{[]Kind{Text, Int}, TypeError{"date", 2, "string/timestamp/date", Int}},
		{[]Kind{Text, TimeOfDay}, TypeError{"date", 2, "string/timestamp/date", TimeOfDay}},
		{[]Kind{Text, Text, DateKind}, TypeError{"input_format", 3, "string", DateKind}},
		{[]Kind{Text, Text, Text, Bool}, TypeError{"output_format", 4, "string", Bool}},
		{[]Kind{Text, Text, Text, Text, Text}, TypeError{"include_interval", 5, "boolean", Text}},
		{[]Kind{Text, Text, Text, Text, Bool, Float}, TypeError{"interval", 6, "string", Float}},
	}
	for _, tt := range tests {
		_, err := FirstDayOf.Prepare(tt.Kinds...)
		var te TypeError
		require.ErrorAs(t, err, &te, "%v", tt.Kinds)
		assert.Equal(t, tt.Want, te)
	}
}

func TestTypeErrorMessage(t *testing.T) {
	_, _, err := FirstDayOf.Call("DAY", time.Hour)
	require.EqualError(t, err,
		"only string/timestamp/date is accepted for date parameter but time is passed as second argument")
}

func TestPrepareKinds(t *testing.T) {
	call, err := LastDayOf.Prepare(Text, DateTimeKind)
	require.NoError(t, err)
	assert.Same(t, LastDayOf, call.Func())
	kinds := call.Kinds()
	kinds[0] = Int
	assert.Equal(t, []Kind{Text, DateTimeKind}, call.Kinds())
}

func TestEvalNull(t *testing.T) {
	kinds := []Kind{Text, Text, Text, Text, Bool, Text}
	values := []any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", true, "01:02:03"}
	call, err := FirstDayOf.Prepare(kinds...)
	require.NoError(t, err)

	for i := range values {
		args := make([]Deferred, len(values))
		for j, v := range values {
			args[j] = Value(v)
		}
		args[i] = Value(nil)
		_, _, err := call.Eval(args...)
		assert.Equal(t, NullArgumentError{params[i].name}, err)
	}

	_, _, err = FirstDayOf.Call("DAY", (*string)(nil))
	assert.EqualError(t, err, "date cannot be null")
}

func TestEvalArity(t *testing.T) {
	call, err := FirstDayOf.Prepare(Text, Text)
	require.NoError(t, err)
	_, _, err = call.Eval(Value("DAY"), Value("2011-01-22"), Value("yyyy-MM-dd"))
	assert.Equal(t, ArityError{"first_day_of", 3}, err)
}

func TestCallUnit(t *testing.T) {
	_, _, err := FirstDayOf.Call("DECADE", "2011-01-22")
	assert.Equal(t, UnitValueError{"DECADE"}, err)
}

func TestCallInterval(t *testing.T) {
	tests := []struct {
		Name    string
		Args    []any
		Field   string
		Message string
	}{
		{
			"hour", []any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", true, "25:00:00"},
			"hour", `interval "25:00:00": invalid hour value in interval, it should be between 0 and 23`,
		},
		{
			"unused", []any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", false, "1:2"},
			"", `interval "1:2": invalid interval value, supported format is HH:MM:SS`,
		},
		{
			"before date", []any{"DAY", "garbage", "yyyy-MM-dd", "yyyy-MM-dd", true, "10:61:00"},
			"minutes", `interval "10:61:00": invalid minutes value in interval, it should be between 0 and 59`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			_, ok, err := FirstDayOf.Call(tt.Args...)
			assert.False(t, ok)
			var fe FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.Field, fe.Field)
			assert.EqualError(t, err, tt.Message)
		})
	}
}

func TestCallPattern(t *testing.T) {
	_, _, err := FirstDayOf.Call("DAY", "2011-01-22", "yyyy-MM-dd z")
	var pe PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "yyyy-MM-dd z", pe.Pattern)

	_, _, err = FirstDayOf.Call("DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd'T")
	require.ErrorIs(t, err, errUnterminated)
}

func TestEvalDeferred(t *testing.T) {
	call, err := FirstDayOf.Prepare(Text, Text)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = call.Eval(Value("DAY"), func() (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "date: boom")

	read := false
	_, _, err = call.Eval(Value("DECADE"), func() (any, error) {
		read = true
		return "2011-01-22", nil
	})
	require.Error(t, err)
	assert.False(t, read, "date read after a bad unit")
}

func TestNewFunc(t *testing.T) {
	f := NewFunc(LastDay, Formats{Input: "dd/MM/yyyy", Output: "MMM d, yyyy"})
	assert.Equal(t, "last_day_of", f.Name())
	assert.Equal(t, LastDay, f.Variant())

	got, ok, err := f.Call("MONTH", "14/02/2011")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Feb 28, 2011", got)

	assert.Equal(t, DefaultFormats, NewFunc(FirstDay, Formats{}).Formats())
}

func TestIntervalRoundTrip(t *testing.T) {
	layout, err := ParsePattern("yyyy-MM-dd HH:mm:ss")
	require.NoError(t, err)
	for _, u := range units {
		for _, f := range []*Func{FirstDayOf, LastDayOf} {
			got, ok, err := f.Call(u.String(), "2011-05-17", DefaultPattern, DefaultPattern, true, "07:08:09")
			require.NoError(t, err)
			require.True(t, ok)
			d, ok := layout.Parse(got)
			require.True(t, ok, got)
			assert.Equal(t, Clock{7, 8, 9, 0}, d.Clock, "%s %v", f.Name(), u)
		}
	}
}

func TestDescribe(t *testing.T) {
	for _, f := range []*Func{FirstDayOf, LastDayOf} {
		d := f.Describe()
		assert.Equal(t, f.Name(), d.Name)
		require.Len(t, d.Args, maxArgs)
		assert.Equal(t, "include_interval", d.Args[4].Name)
		require.NotEmpty(t, d.Examples)
		for _, ex := range d.Examples {
			got, ok, err := f.Call(ex.Args...)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ex.Want, got, "%s%v", f.Name(), ex.Args)
		}
	}
}

func TestEvalConcurrent(t *testing.T) {
	call, err := LastDayOf.Prepare(Text, Text, Text, Text, Bool, Text)
	require.NoError(t, err)

	var g errgroup.Group
	g.SetLimit(8)
	for i := range 200 {
		g.Go(func() error {
			day := Date{2011, time.January, 1}.AddDays(i)
			interval := Clock{Hour: i % 24, Minute: i % 60, Second: (i * 7) % 60}
			got, ok, err := call.Eval(
				Value("MONTH"), Value(day.String()), Value(DefaultPattern),
				Value("dd.MM.yyyy"), Value(true), Value(interval.String()),
			)
			if err != nil {
				return err
			}
			last := monthBoundary(LastDay, day)
			want := fmt.Sprintf("%02d.%02d.%d %s", last.Day, int(last.Month), last.Year, interval)
			if !ok || got != want {
				return errors.New("day " + day.String() + ": got " + got + ", want " + want)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
