package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutility/datebound/boundary"
)

type testRow struct {
	Name string     `expr:"name"`
	Day  Date       `expr:"day"`
	At   StampMicro `expr:"at"`
	Tod  TimeMilli  `expr:"tod"`
	Opt  *Date      `expr:"opt"`
}

var testFuncs = []*boundary.Func{boundary.FirstDayOf, boundary.LastDayOf}

func newTestRow() testRow {
	at := time.Date(2011, time.January, 22, 23, 22, 22, 250000000, time.UTC)
	return testRow{
		Name: "launch",
		Day:  Date(at.Unix() / 86400),
		At:   StampMicro(at.UnixMicro()),
		Tod:  TimeMilli((10*time.Hour + 3*time.Minute) / time.Millisecond),
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		Expr string
		Want any
	}{
		{`first_day_of("MONTH", day)`, "2011-01-01"},
		{`last_day_of("WEEK", day)`, "2011-01-23"},
		{`first_day_of("DAY", at, "", "yyyy-MM-dd HH:mm:ss.SSS")`, "2011-01-22 23:22:22.250"},
		{`last_day_of("QUARTER", at, "", "", true, "23:59:59")`, "2011-03-31 23:59:59"},
		{`last_day_of("QUARTER", at, "", "dd/MM")`, "31/03"},
		{`first_day_of("YEAR", name)`, nil},
		{`first_day_of("YEAR", "2011-05-17") == "2011-01-01"`, true},
		{`day == "2011-01-22"`, true},
		{`day > 14995 && day < 14997`, true},
		{`at >= "2011-01-22 23:22:22"`, true},
		{`at < "2011-01-22T23:22:22Z"`, false},
		{`tod == "10h3m"`, true},
		{`tod < "10:03:01"`, true},
		{`tod > 36180000`, false},
	}
	row := newTestRow()
	for _, tt := range tests {
		t.Run(tt.Expr, func(t *testing.T) {
			program, err := compile(tt.Expr, reflect.TypeFor[testRow](), testFuncs)
			require.NoError(t, err)
			got, err := expr.Run(program, row)
			require.NoError(t, err)
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		Expr string
		Want boundary.TypeError
	}{
		{`first_day_of("DAY", tod)`, boundary.TypeError{Param: "date", Position: 2, Want: "string/timestamp/date", Got: boundary.TimeOfDay}},
		{`last_day_of(day, day)`, boundary.TypeError{Param: "unit", Position: 1, Want: "string", Got: boundary.DateKind}},
		{`first_day_of("DAY", day, "", "", "true")`, boundary.TypeError{Param: "include_interval", Position: 5, Want: "boolean", Got: boundary.Text}},
	}
	for _, tt := range tests {
		t.Run(tt.Expr, func(t *testing.T) {
			_, err := compile(tt.Expr, reflect.TypeFor[testRow](), testFuncs)
			var te boundary.TypeError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.Want, te)
		})
	}

	_, err := compile(`first_day_of("DAY")`, nil, testFuncs)
	var arity boundary.ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, "first_day_of", arity.Func)
}

func TestEvalNull(t *testing.T) {
	program, err := compile(`first_day_of("MONTH", opt)`, reflect.TypeFor[testRow](), testFuncs)
	require.NoError(t, err)

	row := newTestRow()
	_, err = expr.Run(program, row)
	assert.ErrorContains(t, err, "date cannot be null")

	opt := Date(15019) // 2011-02-14
	row.Opt = &opt
	got, err := expr.Run(program, row)
	require.NoError(t, err)
	assert.Equal(t, "2011-02-01", got)
}

func TestFilterWrite(t *testing.T) {
	var names []string
	collect := func(v reflect.Value) error {
		names = append(names, v.Interface().(testRow).Name)
		return nil
	}
	write, err := filterWrite(`last_day_of("MONTH", day) == "2011-01-31"`, reflect.TypeFor[testRow](), testFuncs, collect)
	require.NoError(t, err)

	row := newTestRow()
	require.NoError(t, write(reflect.ValueOf(row)))
	row.Name, row.Day = "later", row.Day+30
	require.NoError(t, write(reflect.ValueOf(row)))
	assert.Equal(t, []string{"launch"}, names)

	_, err = filterWrite(`first_day_of("DAY", tod)`, reflect.TypeFor[testRow](), testFuncs, collect)
	assert.Error(t, err)
}

func TestTypes(t *testing.T) {
	row := newTestRow()
	assert.Equal(t, "2011-01-22", row.Day.String())
	assert.Equal(t, "2011-01-22T23:22:22.25Z", row.At.String())
	assert.Equal(t, "10:03:00", row.Tod.String())

	assert.Equal(t, boundary.DateKind, boundary.KindOf(row.Day))
	assert.Equal(t, boundary.DateTimeKind, boundary.KindOf(row.At))
	assert.Equal(t, boundary.TimeOfDay, boundary.KindOf(row.Tod))
	assert.Equal(t, boundary.DateKind, boundary.KindOf(row.Opt))
	assert.Equal(t, boundary.Date{Year: 2011, Month: time.January, Day: 22}, row.Day.BoundaryValue())
}

func TestCallArgs(t *testing.T) {
	assert.Equal(t,
		[]any{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", true, "10:00:00"},
		callArgs([]string{"DAY", "2011-01-22", "yyyy-MM-dd", "yyyy-MM-dd", "true", "10:00:00"}))
	assert.Equal(t, []any{"DAY", "x", "", "", "yes"}, callArgs([]string{"DAY", "x", "", "", "yes"}))
}
