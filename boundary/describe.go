package boundary

// Description documents a Func for registration with a host.
type Description struct {
	Name     string    `json:"name" yaml:"name"`
	Summary  string    `json:"summary" yaml:"summary"`
	Args     []ArgDoc  `json:"args" yaml:"args"`
	Examples []Example `json:"examples" yaml:"examples"`
}

type ArgDoc struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Default string `json:"default,omitempty" yaml:"default,omitempty"` // empty for required arguments
	Doc     string `json:"doc" yaml:"doc"`
}

type Example struct {
	Args []any  `json:"args" yaml:"args,flow"`
	Want string `json:"want" yaml:"want"`
}

// Describe returns the documentation of f, with defaults reflecting its
// formats.
func (f *Func) Describe() Description {
	d := Description{
		Name: f.Name(),
		Summary: "Returns the " + f.variant.String() + " day of the day, week, month, quarter or year " +
			"containing date, optionally at a time of day.",
		Args: []ArgDoc{
			{params[0].name, params[0].want, "", "one of DAY, WEEK, MONTH, QUARTER, YEAR, in any case"},
			{params[1].name, params[1].want, "", "text is parsed with input_format"},
			{params[2].name, params[2].want, f.formats.Input, "pattern for a text date; empty for the default"},
			{params[3].name, params[3].want, f.formats.Output, "pattern for the result; empty for the default"},
			{params[4].name, params[4].want, "false", "set the result's time of day; adds " + IntervalPattern +
				" to an output_format without one"},
			{params[5].name, params[5].want, "", "time of day as HH:MM:SS"},
		},
	}
	switch f.variant {
	case FirstDay:
		d.Examples = []Example{
			{[]any{"QUARTER", "22-01-2011", "dd-MM-yyyy", DefaultPattern, true, "23:45:45"}, "2011-01-01 23:45:45"},
			{[]any{"YEAR", "02-08-2011", "dd-MM-yyyy", DefaultPattern, false}, "2011-01-01"},
		}
	case LastDay:
		d.Examples = []Example{
			{[]any{"QUARTER", "22-01-2011", "dd-MM-yyyy", DefaultPattern, true, "23:45:45"}, "2011-03-31 23:45:45"},
			{[]any{"YEAR", "02-08-2011", "dd-MM-yyyy", DefaultPattern, false}, "2011-12-31"},
		}
	}
	return d
}
