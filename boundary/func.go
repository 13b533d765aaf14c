package boundary

import (
	"fmt"
	"reflect"
	"slices"
	"time"
)

const (
	minArgs = 2
	maxArgs = 6
)

// Formats are the patterns used when a call omits input_format or
// output_format.
type Formats struct {
	Input  string
	Output string
}

// DefaultFormats uses DefaultPattern for both.
var DefaultFormats = Formats{Input: DefaultPattern, Output: DefaultPattern}

// Func is one of the two boundary functions. It is immutable and safe for
// concurrent use.
type Func struct {
	variant Variant
	formats Formats
}

var (
	FirstDayOf = NewFunc(FirstDay, DefaultFormats)
	LastDayOf  = NewFunc(LastDay, DefaultFormats)
)

// NewFunc returns the function for variant v. Empty formats fall back to
// DefaultPattern.
func NewFunc(v Variant, f Formats) *Func {
	if f.Input == "" {
		f.Input = DefaultPattern
	}
	if f.Output == "" {
		f.Output = DefaultPattern
	}
	return &Func{variant: v, formats: f}
}

// Name is the name the function is registered under.
func (f *Func) Name() string { return f.variant.String() + "_day_of" }

func (f *Func) Variant() Variant { return f.variant }

func (f *Func) Formats() Formats { return f.formats }

// Params are the bound arguments of one invocation.
type Params struct {
	Unit            Unit
	Date            DateTime
	InputFormat     string
	OutputFormat    string
	IncludeInterval bool
	Interval        *Clock // nil when no interval was given
}

// param describes one argument position.
type param struct {
	name    string
	want    string
	accepts []Kind
	bind    func(b *binding, v any) error
}

// binding is the in-progress state of one invocation.
type binding struct {
	Params
	kind Kind // of the date argument
	date any
}

var params = [maxArgs]param{
	{"unit", "string", []Kind{Text}, bindUnit},
	{"date", "string/timestamp/date", []Kind{Text, DateKind, DateTimeKind}, bindDate},
	{"input_format", "string", []Kind{Text}, bindInputFormat},
	{"output_format", "string", []Kind{Text}, bindOutputFormat},
	{"include_interval", "boolean", []Kind{Bool}, bindIncludeInterval},
	{"interval", "string", []Kind{Text}, bindInterval},
}

// Prepare checks the declared kinds of a call's arguments, in position order,
// and returns a Call that evaluates values of those kinds.
func (f *Func) Prepare(kinds ...Kind) (*Call, error) {
	if len(kinds) < minArgs || len(kinds) > maxArgs {
		return nil, ArityError{f.Name(), len(kinds)}
	}
	for i, k := range kinds {
		if p := params[i]; !slices.Contains(p.accepts, k) {
			return nil, TypeError{Param: p.name, Position: i + 1, Want: p.want, Got: k}
		}
	}
	return &Call{fn: f, kinds: slices.Clone(kinds)}, nil
}

// Call invokes f once with plain Go values, inferring their kinds. A nil
// value is taken to be a null of the kind its position expects.
func (f *Func) Call(args ...any) (string, bool, error) {
	kinds := make([]Kind, len(args))
	deferred := make([]Deferred, len(args))
	for i, v := range args {
		kinds[i] = KindOf(v)
		if v == nil && i < maxArgs {
			kinds[i] = params[i].accepts[0]
		}
		deferred[i] = Value(v)
	}
	call, err := f.Prepare(kinds...)
	if err != nil {
		return "", false, err
	}
	return call.Eval(deferred...)
}

// Deferred supplies an argument value when the call needs it. A nil value is
// a null.
type Deferred func() (any, error)

// Value returns a Deferred for a value that is already known.
func Value(v any) Deferred {
	return func() (any, error) { return v, nil }
}

// Call is a prepared invocation shape of a Func. It holds no per-invocation
// state and may be evaluated concurrently.
type Call struct {
	fn    *Func
	kinds []Kind
}

func (c *Call) Func() *Func { return c.fn }

// Kinds returns the declared argument kinds.
func (c *Call) Kinds() []Kind { return slices.Clone(c.kinds) }

// Bind reads the arguments in position order and returns the parameters
// they bind to. ok is false when the date is text that does not match the
// input pattern.
func (c *Call) Bind(args ...Deferred) (p Params, ok bool, err error) {
	if len(args) != len(c.kinds) {
		return p, false, ArityError{c.fn.Name(), len(args)}
	}
	b := binding{
		Params: Params{
			InputFormat:  c.fn.formats.Input,
			OutputFormat: c.fn.formats.Output,
		},
		kind: c.kinds[1],
	}
	for i, arg := range args {
		v, err := arg()
		if err != nil {
			return p, false, fmt.Errorf("%s: %w", params[i].name, err)
		}
		if v = deref(v); v == nil {
			return p, false, NullArgumentError{params[i].name}
		}
		if err := params[i].bind(&b, v); err != nil {
			return p, false, err
		}
	}
	b.Date, ok, err = Resolve(b.kind, b.date, b.InputFormat)
	if err != nil || !ok {
		return p, false, err
	}
	return b.Params, true, nil
}

// Eval evaluates one invocation. ok is false, with a nil error, when the date
// text does not match the input pattern; the result is then null.
func (c *Call) Eval(args ...Deferred) (string, bool, error) {
	p, ok, err := c.Bind(args...)
	if err != nil || !ok {
		return "", false, err
	}
	s, err := p.Render(c.fn.variant)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// Apply computes the boundary for variant v and overlays the interval.
func (p Params) Apply(v Variant) DateTime {
	return Overlay(Boundary(p.Unit, v, p.Date), p.IncludeInterval, p.Interval)
}

// Render applies v and formats the result with the output pattern.
func (p Params) Render(v Variant) (string, error) {
	return Render(p.Apply(v), p.OutputFormat, p.IncludeInterval)
}

// Render formats d with pattern. When include is set and pattern has no hour,
// minute or second field, " HH:mm:ss" is appended to it first.
func Render(d DateTime, pattern string, include bool) (string, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return "", err
	}
	if include && !p.HasClock() {
		p = p.WithInterval()
	}
	return p.Format(d), nil
}

func bindUnit(b *binding, v any) (err error) {
	s, err := text(v)
	if err != nil {
		return err
	}
	b.Unit, err = ParseUnit(s)
	return err
}

func bindDate(b *binding, v any) error {
	b.date = v
	return nil
}

// An empty format keeps the function's default.
func bindInputFormat(b *binding, v any) error {
	s, err := text(v)
	if s != "" {
		b.InputFormat = s
	}
	return err
}

func bindOutputFormat(b *binding, v any) error {
	s, err := text(v)
	if s != "" {
		b.OutputFormat = s
	}
	return err
}

func bindIncludeInterval(b *binding, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return fmt.Errorf("include_interval: unexpected %T value", v)
	}
	b.IncludeInterval = rv.Bool()
	return nil
}

func bindInterval(b *binding, v any) error {
	s, err := text(v)
	if err != nil {
		return err
	}
	c, err := ParseInterval(s)
	if err != nil {
		return err
	}
	b.Interval = &c
	return nil
}

func text(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	// named string types, such as a host's own text type
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("unexpected %T value for a string argument", v)
}

// Resolve converts a date argument of kind k to a DateTime. Text is parsed
// with pattern; ok is false when it does not match. Dates convert at
// midnight and timestamps field for field.
func Resolve(k Kind, v any, pattern string) (d DateTime, ok bool, err error) {
	if kv, isValuer := v.(Valuer); isValuer {
		v = kv.BoundaryValue()
	}
	switch k {
	case Text:
		s, err := text(v)
		if err != nil {
			return d, false, err
		}
		p, err := ParsePattern(pattern)
		if err != nil {
			return d, false, err
		}
		d, ok = p.Parse(s)
		return d, ok, nil
	case DateKind, DateTimeKind:
		switch v := v.(type) {
		case Date:
			d = v.At(Midnight)
		case DateTime:
			d = v
		case time.Time:
			d = FromTime(v)
		default:
			return d, false, fmt.Errorf("date: unexpected %T value for a %v argument", v, k)
		}
		if k == DateKind {
			d.Clock = Midnight
		}
		return d, true, nil
	default:
		return d, false, fmt.Errorf("date: %v is not a date kind", k)
	}
}

// deref unwraps the pointers a host uses for nullable values. A nil pointer
// is a null.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
