// Package boundary computes the first or last day of the calendar period
// (day, week, month, quarter or year) containing a date, and renders it
// through a Joda style pattern such as yyyy-MM-dd.
//
// The computation is exposed the way a query engine exposes a scalar
// function: [Func.Prepare] validates argument kinds once, and [Call.Eval]
// binds deferred values for each invocation.
//
//	call, err := boundary.FirstDayOf.Prepare(boundary.Text, boundary.Text, boundary.Text)
//	if err != nil {
//		return err
//	}
//	s, ok, err := call.Eval(boundary.Value("QUARTER"), boundary.Value("22-01-2011"), boundary.Value("dd-MM-yyyy"))
//	// s == "2011-01-01", ok == true
//
// A date that does not match its input pattern is not an error: Eval
// reports ok == false and the caller should treat the result as null.
package boundary
