package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"
)

// TableFormatter renders reports as aligned columns.
//
// A struct is listed as FIELD/VALUE rows. A slice of structs gets one row per
// element under headers derived from the json tags. Anything else, such as
// nested configuration, is written as YAML.
type TableFormatter struct {
	// Wide includes fields tagged `table:"wide"` in slice rows.
	Wide bool
}

// Format writes data to w.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	v := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case v.Kind() == reflect.Struct && flat(v.Type()):
		return writeColumns(w, fieldRows(v))
	case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && isStruct(v.Type().Elem()):
		return writeColumns(w, elemRows(v, f.Wide))
	default:
		return (&YAMLFormatter{}).Format(w, data)
	}
}

// column is one exported struct field shown in a table.
type column struct {
	index  int
	header string
	wide   bool
}

// columns returns the displayable fields of t in declaration order.
func columns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("table")
		if !field.IsExported() || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name = field.Name
		}
		cols = append(cols, column{index: i, header: name, wide: tag == "wide"})
	}
	return cols
}

// flat reports whether t has no nested struct fields other than time
// values. Sections of the configuration are not flat.
func flat(t reflect.Type) bool {
	for _, c := range columns(t) {
		ft := t.Field(c.index).Type
		if ft.Kind() == reflect.Struct && ft != timeType {
			return false
		}
	}
	return true
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func fieldRows(v reflect.Value) [][]string {
	rows := [][]string{{"FIELD", "VALUE"}}
	for _, c := range columns(v.Type()) {
		rows = append(rows, []string{c.header, formatValue(v.Field(c.index))})
	}
	return rows
}

func elemRows(v reflect.Value, wide bool) [][]string {
	t := v.Type().Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var cols []column
	header := []string{}
	for _, c := range columns(t) {
		if c.wide && !wide {
			continue
		}
		cols = append(cols, c)
		header = append(header, strings.ToUpper(c.header))
	}

	rows := [][]string{header}
	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		if !elem.IsValid() {
			continue
		}
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = formatValue(elem.Field(c.index))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeColumns(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// formatValue renders one cell.
func formatValue(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "-"
	}

	switch v.Type() {
	case durationType:
		return time.Duration(v.Int()).String()
	case timeType:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.DateTime)
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("(%d)", v.Len())
	default:
		return fmt.Sprint(v.Interface())
	}
}
