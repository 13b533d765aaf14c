package main

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/mutility/datebound/boundary"
)

// compile compiles code for rows of rowType, or for no environment when
// rowType is nil. The boundary functions are available under their names.
func compile(code string, rowType reflect.Type, funcs []*boundary.Func, opts ...expr.Option) (*vm.Program, error) {
	check := &prepareCalls{funcs: make(map[string]*boundary.Func, len(funcs))}
	var options []expr.Option
	if rowType != nil {
		options = append(options, expr.Env(reflect.New(rowType).Elem().Interface()))
	}
	options = append(options, expr.Timezone("UTC"), expr.Patch(check))
	for _, f := range funcs {
		check.funcs[f.Name()] = f
		options = append(options, boundaryFunction(f))
	}

	program, err := expr.Compile(
		code,
		slices.Concat(options, opts, columnCompares)...,
	)
	if err != nil {
		return nil, err
	}
	if check.err != nil {
		return nil, check.err
	}
	return program, nil
}

// boundaryFunction exposes f to expressions. A null result is nil.
func boundaryFunction(f *boundary.Func) expr.Option {
	return expr.Function(f.Name(), func(params ...any) (any, error) {
		s, ok, err := f.Call(params...)
		if err != nil || !ok {
			return nil, err
		}
		return s, nil
	})
}

// prepareCalls validates the argument types of boundary function calls once
// the checker has typed them, so a bad call fails compilation rather than
// every row.
type prepareCalls struct {
	funcs map[string]*boundary.Func
	err   error
}

func (p *prepareCalls) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.CallNode)
	if !ok || p.err != nil {
		return
	}
	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok {
		return
	}
	f, ok := p.funcs[callee.Value]
	if !ok {
		return
	}
	kinds := make([]boundary.Kind, len(call.Arguments))
	for i, arg := range call.Arguments {
		// nil and interface typed arguments are only known per row
		if kinds[i] = boundary.KindFor(arg.Type()); kinds[i] == boundary.Other {
			return
		}
	}
	if _, err := f.Prepare(kinds...); err != nil {
		p.err = errors.Wrap(err, f.Name())
	}
}

// filterWrite wraps w to write only the rows matching filter. The filter
// sees each row's fields by name, with dates and timestamps as the
// boundary-typed values of goLogicalType.
func filterWrite(filter Filter, rowType reflect.Type, funcs []*boundary.Func, w WriteFunc) (WriteFunc, error) {
	if filter == "" {
		return w, nil
	}
	match, err := compile(string(filter), rowType, funcs, expr.AsBool())
	if err != nil {
		return w, err
	}
	return func(v reflect.Value) error {
		if include, err := expr.Run(match, v.Interface()); err != nil {
			return err
		} else if include.(bool) {
			return w(v)
		}
		return nil
	}, nil
}

// relations are the comparison operators, each with the sign of a
// comparison result that satisfies it.
var relations = []struct {
	op string
	is func(int) bool
}{
	{"==", func(n int) bool { return n == 0 }},
	{"!=", func(n int) bool { return n != 0 }},
	{"<", func(n int) bool { return n < 0 }},
	{"<=", func(n int) bool { return n <= 0 }},
	{">", func(n int) bool { return n > 0 }},
	{">=", func(n int) bool { return n >= 0 }},
}

// columnCompares overload the relations for the date, time and timestamp
// column types of goLogicalType. Those are the values rows hand to the
// boundary functions, so a filter compares them with the strings the
// functions return.
var columnCompares = slices.Concat(
	typeCompare[Date, time.Time](epochCompare),
	typeCompare[StampMilli, time.Time](epochCompare),
	typeCompare[StampMicro, time.Time](epochCompare),
	typeCompare[StampNano, time.Time](epochCompare),
	typeCompare[TimeMilli, time.Duration](timeCompare),
	typeCompare[TimeMicro, time.Duration](timeCompare),
	typeCompare[TimeNano, time.Duration](timeCompare),
)

// typeCompare overloads every relation for column type T against itself,
// int, string and U, on either side of the operator.
func typeCompare[T epochValue, U any](compare func(T, any) (int, error)) []expr.Option {
	ty := reflect.TypeFor[T]().String()
	opts := make([]expr.Option, 0, 3*len(relations))
	for _, r := range relations {
		left, right := r.op+ty, ty+r.op
		opts = append(opts,
			expr.Operator(r.op, left, right),
			expr.Function(left,
				func(params ...any) (any, error) {
					rel, err := compare(params[0].(T), params[1])
					return r.is(rel), err
				},
				new(func(T, int) bool),
				new(func(T, string) bool),
				new(func(T, U) bool),
				new(func(T, T) bool),
			),
			expr.Function(right,
				func(params ...any) (any, error) {
					rel, err := compare(params[1].(T), params[0])
					return r.is(-rel), err
				},
				new(func(int, T) bool),
				new(func(string, T) bool),
				new(func(U, T) bool),
			),
		)
	}
	return opts
}

// Layouts accepted for dates and timestamps given as strings. The second
// matches what the boundary functions render with an interval.
var stampLayouts = []string{time.RFC3339Nano, time.DateTime, "2006-01-02T15:04:05.999999999", time.DateOnly}

// epochCompare compares a date or timestamp to another of its type, to its
// physical value, to a time or to a string in one of stampLayouts.
func epochCompare[T epochValue](t T, o any) (int, error) {
	at := epochTime(t.offset())
	switch o := o.(type) {
	case T:
		return cmp.Compare(t, o), nil
	case int:
		return cmp.Compare(int64(t), int64(o)), nil
	case time.Time:
		return at.Compare(o), nil
	case string:
		for _, layout := range stampLayouts {
			if ot, err := time.Parse(layout, o); err == nil {
				return at.Compare(ot), nil
			}
		}
		return 0, fmt.Errorf("cannot compare %T to %q: not a date or timestamp", t, o)
	}
	return 0, fmt.Errorf("cannot compare %T to %T", t, o)
}

// timeCompare compares a time of day to another of its type, to its
// physical value, to a duration since midnight or to a string holding a
// duration (10h3m) or a clock (10:03:00).
func timeCompare[T epochValue](t T, o any) (int, error) {
	at := t.offset()
	switch o := o.(type) {
	case T:
		return cmp.Compare(t, o), nil
	case int:
		return cmp.Compare(int64(t), int64(o)), nil
	case time.Duration:
		return cmp.Compare(at, o), nil
	case string:
		if d, err := time.ParseDuration(o); err == nil {
			return cmp.Compare(at, d), nil
		}
		if ct, err := time.Parse(clockNano, o); err == nil {
			midnight := time.Date(ct.Year(), ct.Month(), ct.Day(), 0, 0, 0, 0, time.UTC)
			return cmp.Compare(at, ct.Sub(midnight)), nil
		}
		return 0, fmt.Errorf("cannot compare %T to %q: not a duration or time of day", t, o)
	}
	return 0, fmt.Errorf("cannot compare %T to %T", t, o)
}
