package entity

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

// Dump timestamps carry milliseconds and no timezone: "2009-03-11T12:51:01.480".
// A few older rows omit the fraction.
const (
	dateLayout      = "2006-01-02T15:04:05.000"
	dateLayoutShort = "2006-01-02T15:04:05"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(dateLayoutShort, s)
	}
	return t, err
}

// rowDecoder pulls typed values out of one attribute row, remembering the
// first failure so entity decoders can read all fields without per-field
// error plumbing.
type rowDecoder struct {
	attrs map[string]string
	err   error
}

func newRowDecoder(row xmlstream.Row) *rowDecoder {
	attrs := make(map[string]string, len(row.Attrs))
	for _, a := range row.Attrs {
		attrs[a.Name] = a.Value
	}
	return &rowDecoder{attrs: attrs}
}

func (d *rowDecoder) Err() error { return d.err }

func (d *rowDecoder) fail(name string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("attribute %s: %w", name, err)
	}
}

func (d *rowDecoder) missing(name string) {
	if d.err == nil {
		d.err = fmt.Errorf("missing attribute %s", name)
	}
}

func (d *rowDecoder) str(name string) string {
	s, ok := d.attrs[name]
	if !ok {
		d.missing(name)
	}
	return s
}

func (d *rowDecoder) optStr(name string) *string {
	s, ok := d.attrs[name]
	if !ok {
		return nil
	}
	return &s
}

func (d *rowDecoder) int64(name string) int64 {
	s, ok := d.attrs[name]
	if !ok {
		d.missing(name)
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.fail(name, err)
		return 0
	}
	return v
}

func (d *rowDecoder) optInt64(name string) *int64 {
	s, ok := d.attrs[name]
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.fail(name, err)
		return nil
	}
	return &v
}

func (d *rowDecoder) boolean(name string) bool {
	s, ok := d.attrs[name]
	if !ok {
		d.missing(name)
		return false
	}
	switch s {
	case "True", "true":
		return true
	case "False", "false":
		return false
	}
	d.fail(name, fmt.Errorf("invalid boolean %q", s))
	return false
}

func (d *rowDecoder) date(name string) time.Time {
	s, ok := d.attrs[name]
	if !ok {
		d.missing(name)
		return time.Time{}
	}
	t, err := parseDate(s)
	if err != nil {
		d.fail(name, err)
	}
	return t
}

func (d *rowDecoder) optDate(name string) *time.Time {
	s, ok := d.attrs[name]
	if !ok {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		d.fail(name, err)
		return nil
	}
	return &t
}

// Field constructors. Optional absent values keep their declared type so the
// derived schema does not depend on which fields the first record carried.

func intField(name string, v int64) sqlcodec.Field {
	return sqlcodec.Field{Name: name, Value: sqlcodec.Integer(v)}
}

func optIntField(name string, v *int64) sqlcodec.Field {
	if v == nil {
		return sqlcodec.Field{Name: name, Value: sqlcodec.Null(sqlcodec.TypeInteger)}
	}
	return intField(name, *v)
}

func textField(name, s string) sqlcodec.Field {
	return sqlcodec.Field{Name: name, Value: sqlcodec.Text(s)}
}

func optTextField(name string, s *string) sqlcodec.Field {
	if s == nil {
		return sqlcodec.Field{Name: name, Value: sqlcodec.Null(sqlcodec.TypeText)}
	}
	return textField(name, *s)
}

func boolField(name string, v bool) sqlcodec.Field {
	if v {
		return textField(name, "true")
	}
	return textField(name, "false")
}

func dateField(name string, t time.Time) sqlcodec.Field {
	return textField(name, t.Format(dateLayout))
}

func optDateField(name string, t *time.Time) sqlcodec.Field {
	if t == nil {
		return sqlcodec.Field{Name: name, Value: sqlcodec.Null(sqlcodec.TypeText)}
	}
	return dateField(name, *t)
}
