package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mutility/cli/run"

	"github.com/mutility/datebound/boundary"
)

func main() {
	os.Exit(run.Main(runEnv))
}

type (
	SchemaFormat   string
	DataFormat     string
	DescribeFormat string
	Filter         string
	Expression     string
)

type app struct {
	v   *viper.Viper
	log *slog.Logger

	// global flags, applied over the configuration by initConfig
	cfgFile   string
	inFormat  string
	outFormat string
	nullFlag  string
	verbose   bool
}

func runEnv(env run.Environ) error {
	a := &app{
		v:   viper.New(),
		log: slog.New(slog.DiscardHandler),
	}
	app, err := a.app()
	if err != nil {
		return err
	}
	err = app.Main(context.Background(), env)
	if err != nil {
		app.Ferror(env.Stderr, err)
	}
	return err
}

// configured reads the configuration before running h.
func (a *app) configured(h run.Handler) run.Handler {
	return func(ctx run.Context) error {
		if err := a.initConfig(ctx.Stderr); err != nil {
			return err
		}
		return h(ctx)
	}
}

func (a *app) app() (*run.Application, error) {
	schemaFormats := []run.NamedValue[SchemaFormat]{
		{Name: "message", Value: "message"},
		{Name: "m", Value: "message"},
		{Name: "logical", Value: "logical"},
		{Name: "l", Value: "logical"},
		{Name: "physical", Value: "physical"},
		{Name: "p", Value: "physical"},
	}
	meta := run.NamedOf("format", "Output schema as message or logical/physical struct", schemaFormats)
	data := run.StringOf("format", "Output as go, csv, json, jsonl, or table", dataFormats...)
	desc := run.StringOf[DescribeFormat]("format", "Output as text, json, or yaml", "text", "json", "yaml")
	head := run.IntLike[int64]("head", "Include first n or skip first -n rows", 10)
	tail := run.IntLike[int64]("tail", "Include last n or skip last -n rows", 10)
	filt := run.StringLike[Filter]("filter", "Include rows matching FILTER")
	code := run.StringLike[Expression]("expr", "Expression to evaluate")
	args := run.StringSlice("args", "unit, date [, input_format [, output_format [, include_interval [, interval]]]]")

	file := run.File("file", "Parquet file")
	files := run.FileSlice("file", "Parquet files")

	headFlag := head.Flags(0, "head", "n|-n")
	tailFlag := tail.Flags(0, "tail", "n|-n")
	dataFlag := data.Flags('f', "format", "").Default("go")

	printOne := a.configured(run.Handler5(a.printFiles, data, head, tail, filt, file.Slice()))
	printMany := a.configured(run.Handler5(a.printFiles, data, head, tail, filt, files))

	var cmds []run.CmdOption
	for _, v := range []boundary.Variant{boundary.FirstDay, boundary.LastDay} {
		cmd, err := run.Cmd(v.String(), "Print the "+v.String()+" day of the period containing a date",
			args.Args("arg"),
			run.Details(boundaryHelp(v)),
			a.configured(run.Handler2(a.printBoundary, run.Pass(v), args)),
		)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	describeFirst, err := run.Cmd(boundary.FirstDay.String(), "Describe first_day_of",
		a.configured(run.Handler2(a.describe, desc, run.Pass([]boundary.Variant{boundary.FirstDay}))),
	)
	if err != nil {
		return nil, err
	}
	describeLast, err := run.Cmd(boundary.LastDay.String(), "Describe last_day_of",
		a.configured(run.Handler2(a.describe, desc, run.Pass([]boundary.Variant{boundary.LastDay}))),
	)
	if err != nil {
		return nil, err
	}
	describeCmd, err := run.Cmd("describe", "Describe the boundary functions",
		desc.Flags('f', "format", "").Default("text"),
		describeFirst, describeLast,
		a.configured(run.Handler2(a.describe, desc, run.Pass([]boundary.Variant{boundary.FirstDay, boundary.LastDay}))),
	)
	if err != nil {
		return nil, err
	}

	catCmd, err := run.Cmd("cat", "Print parquet files",
		dataFlag, headFlag, tailFlag,
		files.Args("file"),
		printMany,
	)
	if err != nil {
		return nil, err
	}

	headCmd, err := run.Cmd("head", "Print (or skip) the beginning of a parquet file",
		dataFlag,
		head.Arg("rows"), file.Arg("file"),
		printOne,
	)
	if err != nil {
		return nil, err
	}

	tailCmd, err := run.Cmd("tail", "Print (or skip) the ending of a parquet file",
		dataFlag,
		tail.Arg("rows"), file.Arg("file"),
		printOne,
	)
	if err != nil {
		return nil, err
	}

	schemaCmd, err := run.Cmd("schema", "Print a parquet schema",
		meta.Flags('f', "format", "").Default("message"),
		files.Args("file"),
		a.configured(run.Handler2(a.printSchema, meta, files)),
	)
	if err != nil {
		return nil, err
	}

	whereCmd, err := run.Cmd("where", "Filter parquet files",
		dataFlag, headFlag, tailFlag,
		filt.Arg("filter"), files.Args("file"),
		run.DetailsFor(filterHelp, filt),
		printMany,
	)
	if err != nil {
		return nil, err
	}

	selectCmd, err := run.Cmd("select", "Evaluate an expression for every row of parquet files",
		code.Arg("expr"), files.Args("file"),
		run.DetailsFor(filterHelp, code),
		a.configured(run.Handler2(a.selectFiles, code, files)),
	)
	if err != nil {
		return nil, err
	}

	evalCmd, err := run.Cmd("eval", "Evaluate an expression once",
		code.Arg("expr"),
		run.DetailsFor(filterHelp, code),
		a.configured(run.Handler1(a.eval, code)),
	)
	if err != nil {
		return nil, err
	}

	cmds = append(cmds, describeCmd, catCmd, headCmd, tailCmd, schemaCmd, whereCmd, selectCmd, evalCmd)
	for _, f := range a.globalFlags() {
		cmds = append(cmds, f)
	}
	return run.App("datebound", "First and last days of calendar periods", cmds...)
}

func boundaryHelp(v boundary.Variant) string {
	return `Print the ` + v.String() + ` day of the DAY, WEEK, MONTH, QUARTER or YEAR containing date.

include_interval must be true or false; with true the result has the time of day
given by interval (HH:MM:SS), or the date's own when interval is omitted.
Empty arguments, which keep the configured formats, follow a -- argument:

    datebound ` + v.String() + ` QUARTER 22-01-2011 dd-MM-yyyy yyyy-MM-dd true 23:45:45
    datebound ` + v.String() + ` -- MONTH 2011-01-22 '' '' true`
}

func (a *app) printBoundary(ctx run.Context, v boundary.Variant, args []string) error {
	f := boundary.NewFunc(v, a.formats())
	s, ok, err := f.Call(callArgs(args)...)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Debug("date does not match input format", "date", args[1])
		s = a.nullText()
	}
	_, err = fmt.Fprintln(ctx.Stdout, s)
	return err
}

// callArgs types command line arguments for the boundary functions. The
// include_interval position is a boolean when it parses as one and text
// otherwise, which the function rejects.
func callArgs(args []string) []any {
	vals := make([]any, len(args))
	for i, arg := range args {
		vals[i] = arg
		if i == 4 {
			if b, err := strconv.ParseBool(arg); err == nil {
				vals[i] = b
			}
		}
	}
	return vals
}

func (a *app) describe(ctx run.Context, format DescribeFormat, variants []boundary.Variant) error {
	var ds []boundary.Description
	for _, f := range a.funcs() {
		for _, v := range variants {
			if f.Variant() == v {
				ds = append(ds, f.Describe())
			}
		}
	}
	return describe(ctx.Stdout, format, ds)
}

func describe(w io.Writer, format DescribeFormat, ds []boundary.Description) error {
	switch format {
	case "text":
		for _, d := range ds {
			if err := describeText(w, d); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(ds)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return stderrors.Join(enc.Encode(ds), enc.Close())
	}
	return fmt.Errorf("format %q: %w", format, stderrors.ErrUnsupported)
}

func describeText(w io.Writer, d boundary.Description) error {
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n\n", d.Name, d.Summary); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Argument", "Type", "Default", "Description"})
	for _, arg := range d.Args {
		if err := table.Append([]string{arg.Name, arg.Type, arg.Default, arg.Doc}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nExamples:"); err != nil {
		return err
	}
	for _, ex := range d.Examples {
		args := make([]string, len(ex.Args))
		for i, arg := range ex.Args {
			if s, ok := arg.(string); ok {
				args[i] = strconv.Quote(s)
			} else {
				args[i] = fmt.Sprint(arg)
			}
		}
		if _, err := fmt.Fprintf(w, "  %s(%s) = %s\n", d.Name, strings.Join(args, ", "), ex.Want); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (a *app) printSchema(ctx run.Context, format SchemaFormat, files []string) error {
	return eachFile(files, func(name string) error {
		return withReader(a.log, name, func(pq *parquetReader) (err error) {
			switch format {
			case "message":
				_, err = fmt.Fprintln(ctx.Stdout, pq.Schema())
			case "physical":
				_, err = fmt.Fprintln(ctx.Stdout, pq.Schema().GoType())
			case "logical":
				s := goLogicalType(pq.Schema(), false).String()
				_, err = fmt.Fprintln(ctx.Stdout, strings.ReplaceAll(s, " main.", " "))
			}
			return err
		})
	})
}

func (a *app) printFiles(ctx run.Context, format DataFormat, head, tail int64, filter Filter, files []string) error {
	return eachFile(files, func(name string) error {
		return withReader(a.log, name, func(pq *parquetReader) error {
			rowType := goLogicalType(pq.Schema(), true)
			return withWriter(format, ctx.Stdout, a.nullText(), func(write WriteFunc) error {
				write, err := filterWrite(filter, rowType, a.funcs(), write)
				if err != nil {
					return errors.Wrap(err, "filter")
				}
				return eachRow(pq, rowType, head, tail, write)
			})
		})
	})
}

func (a *app) printValue(w io.Writer, out any) error {
	if out == nil {
		out = a.nullText()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func (a *app) eval(ctx run.Context, code Expression) error {
	program, err := compile(string(code), nil, a.funcs())
	if err != nil {
		return errors.Wrap(err, "expression")
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return err
	}
	return a.printValue(ctx.Stdout, out)
}

func (a *app) selectFiles(ctx run.Context, code Expression, files []string) error {
	return eachFile(files, func(name string) error {
		return withReader(a.log, name, func(pq *parquetReader) error {
			rowType := goLogicalType(pq.Schema(), true)
			program, err := compile(string(code), rowType, a.funcs())
			if err != nil {
				return errors.Wrap(err, "expression")
			}
			return eachRow(pq, rowType, 0, 0, func(v reflect.Value) error {
				out, err := expr.Run(program, v.Interface())
				if err != nil {
					return err
				}
				return a.printValue(ctx.Stdout, out)
			})
		})
	})
}

const filterHelp = `
Expressions use the expr language, a go-like syntax.

  - Comparisons include:  ==  !=  <  <=  >  >=  in  contains  matches
  - Logical algebra includes:  !  not  &&  and  ||  or
  - Values include:  true  false  nil  42  1.4  "hi"  [1, 2]
  - Fields and nested fields are referenced by name:  a  b.c

Each logical field is available using its name from the schema with the type in the logical schema.
Dates and timestamps can be compared to others of the same type, to integers matching their physical
storage, or to strings such as "2024-01-01" or "2024-01-01 10:00:00". Times can be compared to
duration strings (10h3m2.1s) or clocks ("10:03:02").

The boundary functions take the same arguments as the first and last commands, and accept date and
timestamp fields for date:

  - first_day_of("MONTH", d) == "2024-01-01"
  - last_day_of("QUARTER", s, "", "yyyy-MM-dd HH:mm", true, "23:59:00")
  - first_day_of("WEEK", "22/01/2011", "dd/MM/yyyy")

Reference https://expr-lang.org/docs/language-definition for full details.
`
