package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
)

var dataFormats = []DataFormat{"go", "csv", "json", "jsonl", "table"}

// withWriter calls do with a WriteFunc rendering rows in format, then
// finishes the output. nullText stands in for nil values in csv and table
// cells.
func withWriter(format DataFormat, w io.Writer, nullText string, do func(WriteFunc) error) error {
	switch format {
	case "go":
		return do(func(v reflect.Value) error {
			_, err := fmt.Fprintf(w, "%+v\n", v)
			return err
		})
	case "csv":
		cw := &csvWriter{w: w, null: nullText}
		err := do(cw.Write)
		return errors.Join(err, cw.Close())
	case "json":
		jw := &jsonWriter{w: w}
		err := do(jw.Write)
		return errors.Join(err, jw.Close())
	case "jsonl":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return do(func(v reflect.Value) error { return enc.Encode(v.Interface()) })
	case "table":
		tw := &tableWriter{w: w, null: nullText}
		err := do(tw.Write)
		return errors.Join(err, tw.Close())
	}
	return fmt.Errorf("format %q: %w", format, errors.ErrUnsupported)
}

// columns returns the column names of row type t.
func columns(t reflect.Type) ([]string, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unsupported output %s", t)
	}
	hdr := make([]string, t.NumField())
	for i := range hdr {
		f := t.Field(i)
		hdr[i] = f.Name
		if n, _, _ := strings.Cut(f.Tag.Get("parquet"), ","); n != "" {
			hdr[i] = n
		}
	}
	return hdr, nil
}

// cell renders one field. Scalars and types with a String method print as
// text, anything else as JSON.
func cell(v reflect.Value, null string) (string, error) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return null, nil
		}
		v = v.Elem()
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), nil
	}
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8,
		reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8,
		reflect.Float64, reflect.Float32, reflect.String:
		return fmt.Sprint(v.Interface()), nil
	default:
		b, err := json.Marshal(v.Interface())
		return string(b), err
	}
}

func cells(v reflect.Value, vals []string, null string) (err error) {
	for i := range vals {
		if vals[i], err = cell(v.Field(i), null); err != nil {
			return err
		}
	}
	return nil
}

type csvWriter struct {
	w    io.Writer
	c    *csv.Writer
	null string
	vals []string
	err  error
}

func (w *csvWriter) Write(v reflect.Value) error {
	if w.err != nil {
		return w.err
	}
	if w.c == nil {
		w.c = csv.NewWriter(w.w)
		var hdr []string
		if hdr, w.err = columns(v.Type()); w.err != nil {
			w.err = fmt.Errorf("csv: %w", w.err)
			return w.err
		}
		if w.err = w.c.Write(hdr); w.err != nil {
			return w.err
		}
		w.vals = make([]string, len(hdr))
	}
	if w.err = cells(v, w.vals, w.null); w.err != nil {
		return w.err
	}
	w.err = w.c.Write(w.vals)
	return w.err
}

func (w *csvWriter) Close() error {
	if w.c == nil {
		return w.err
	}
	w.c.Flush()
	return errors.Join(w.err, w.c.Error())
}

type jsonWriter struct {
	w      io.Writer
	b      bytes.Buffer
	e      *json.Encoder
	err    error
	prefix []byte
}

func (w *jsonWriter) Write(v reflect.Value) error {
	if w.err != nil {
		return w.err
	}

	if w.e == nil {
		w.e = json.NewEncoder(&w.b)
		w.e.SetEscapeHTML(false)
		w.prefix = []byte("[\n  ")
	}

	if w.err = w.e.Encode(v.Interface()); w.err != nil {
		return w.err
	}

	j := bytes.TrimSuffix(w.b.Bytes(), []byte{'\n'})
	defer w.b.Reset()
	if _, w.err = w.w.Write(w.prefix); w.err != nil {
		return w.err
	}
	w.prefix[0] = ','
	_, w.err = w.w.Write(j)
	return w.err
}

func (w *jsonWriter) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.e != nil {
		w.e = nil
		_, w.err = w.w.Write([]byte("\n]\n"))
	} else {
		_, w.err = w.w.Write([]byte("[]\n"))
	}
	return w.err
}

// tableWriter buffers rows and renders them as one table on Close.
type tableWriter struct {
	w    io.Writer
	t    *tablewriter.Table
	null string
	err  error
}

func (w *tableWriter) Write(v reflect.Value) error {
	if w.err != nil {
		return w.err
	}
	if w.t == nil {
		hdr, err := columns(v.Type())
		if err != nil {
			w.err = fmt.Errorf("table: %w", err)
			return w.err
		}
		w.t = tablewriter.NewWriter(w.w)
		w.t.Header(hdr)
	}
	vals := make([]string, v.NumField())
	if w.err = cells(v, vals, w.null); w.err != nil {
		return w.err
	}
	w.err = w.t.Append(vals)
	return w.err
}

func (w *tableWriter) Close() error {
	if w.err != nil || w.t == nil {
		return w.err
	}
	return w.t.Render()
}
