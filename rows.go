package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

type parquetReader = parquet.Reader //nolint:staticcheck

// WriteFunc receives one row of a goLogicalType struct. Its date, time and
// timestamp fields hold the types in types.go, which the boundary functions
// and filters take as they are.
type WriteFunc func(reflect.Value) error

// eachFile calls do for each file in turn, stopping at the first error.
func eachFile(files []string, do func(name string) error) error {
	for _, name := range files {
		if err := do(name); err != nil {
			return err
		}
	}
	return nil
}

// withReader opens the parquet file name and calls do with a reader over its
// rows. The file's size and row count are logged at debug level.
func withReader(log *slog.Logger, name string, do func(*parquetReader) error) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return errors.Wrap(err, name)
	}

	pq := parquet.NewReader(pf)
	defer pq.Close()

	log.Debug("opened parquet file",
		"file", name,
		"size", humanize.IBytes(uint64(stat.Size())),
		"rows", humanize.Comma(pq.NumRows()),
	)
	return do(pq)
}

// rowSpan returns the rows [start, stop) of rows selected by head or tail:
// positive values keep the first or last n rows, negative values skip them.
func rowSpan(rows, head, tail int64) (start, stop int64, err error) {
	start, stop = 0, rows
	switch {
	case head != 0 && tail != 0:
		return 0, 0, errors.New("only one of --head and --tail may be provided")
	case head > 0:
		stop = head
	case head < 0:
		start = -head
	case tail > 0:
		start = rows - tail
	case tail < 0:
		stop = rows + tail
	}
	return max(start, 0), min(stop, rows), nil
}

// eachRow decodes the rows of pq selected by head and tail into rowType, the
// row struct goLogicalType built for its schema, and passes each to do.
func eachRow(pq *parquetReader, rowType reflect.Type, head, tail int64, do WriteFunc) error {
	start, stop, err := rowSpan(pq.NumRows(), head, tail)
	if err != nil {
		return err
	}
	if start > 0 && start < stop {
		if err := pq.SeekToRow(start); err != nil {
			return err
		}
	}

	v, z := reflect.New(rowType), reflect.Zero(rowType)
	for range stop - start {
		v.Elem().Set(z)
		if err := pq.Read(v.Interface()); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := do(v.Elem()); err != nil {
			return err
		}
	}
	return nil
}

// goLogicalType returns a more useful type than s.GoType()
//
// s.GoType returns a struct corresponding to the physical structure of the parquet file.
// However logical types can be handled better. In particular...
//
//   - Logical maps should use map[K]V instead of a (nested) slice of key-value structs
//   - Logical strings should use string instead of []uint8
//   - Dates, times and timestamps use the types in types.go, which the boundary
//     functions accept as dates and timestamps
func goLogicalType(s *parquet.Schema, tag bool) reflect.Type {
	return reflect.StructOf(goLogicalTypeFields(s.Fields(), tag))
}

func goLogicalTypeFields(flds []parquet.Field, tag bool) []reflect.StructField {
	sf := make([]reflect.StructField, len(flds))
	for i, pf := range flds {
		sf[i] = goLogicalTypeField(pf, tag)
	}
	return sf
}

func goLogicalTypeField(pf parquet.Field, tag bool) reflect.StructField {
	name := pf.Name()
	title := strings.ToTitle(name[:1]) + name[1:]
	sf := reflect.StructField{
		Name: title,
		Type: pf.GoType(),
	}
	if name != title && tag {
		sf.Tag = reflect.StructTag(fmt.Sprintf("json:%[1]q parquet:%[1]q expr:%[1]q", name))
	}

	if lt := pf.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			sf.Type = reflect.TypeFor[string]()
		case lt.Map != nil:
			kvs := pf.Fields()[0]
			mapfields := goLogicalTypeFields(kvs.Fields(), tag)
			sf.Type = reflect.MapOf(mapfields[0].Type, mapfields[1].Type)
		case lt.Date != nil:
			sf.Type = reflect.TypeFor[Date]()
		case lt.Time != nil:
			switch {
			case lt.Time.Unit.Millis != nil:
				sf.Type = reflect.TypeFor[TimeMilli]()
			case lt.Time.Unit.Micros != nil:
				sf.Type = reflect.TypeFor[TimeMicro]()
			case lt.Time.Unit.Nanos != nil:
				sf.Type = reflect.TypeFor[TimeNano]()
			}
		case lt.Timestamp != nil:
			switch {
			case lt.Timestamp.Unit.Millis != nil:
				sf.Type = reflect.TypeFor[StampMilli]()
			case lt.Timestamp.Unit.Micros != nil:
				sf.Type = reflect.TypeFor[StampMicro]()
			case lt.Timestamp.Unit.Nanos != nil:
				sf.Type = reflect.TypeFor[StampNano]()
			}
		}
	} else if !pf.Leaf() {
		sf.Type = reflect.StructOf(goLogicalTypeFields(pf.Fields(), tag))
	}
	if k := sf.Type.Kind(); pf.Optional() && k != reflect.Pointer && k != reflect.Map {
		sf.Type = reflect.PointerTo(sf.Type)
	}
	return sf
}
