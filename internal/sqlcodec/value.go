// Package sqlcodec maps ordered record fields to SQLite values and
// statements. A record type describes itself through Fields(); the order of
// that slice is the binding contract, so every record of a given type must
// report the same fields in the same order.
package sqlcodec

import "fmt"

// Type is the SQLite storage class of a value.
type Type int

const (
	TypeInteger Type = iota
	TypeReal
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Value is a typed SQL value. A null Value keeps its declared type so that
// schema derivation never depends on whether the first record happened to
// have the field populated.
type Value struct {
	typ  Type
	null bool
	i    int64
	f    float64
	s    string
}

func Integer(v int64) Value  { return Value{typ: TypeInteger, i: v} }
func Real(v float64) Value   { return Value{typ: TypeReal, f: v} }
func Text(s string) Value    { return Value{typ: TypeText, s: s} }
func Null(t Type) Value      { return Value{typ: t, null: true} }
func (v Value) Type() Type   { return v.typ }
func (v Value) IsNull() bool { return v.null }

func (v Value) Int64() int64     { return v.i }
func (v Value) Float64() float64 { return v.f }
func (v Value) Text() string     { return v.s }

// Arg returns the value in the form database/sql expects for binding.
func (v Value) Arg() any {
	if v.null {
		return nil
	}
	switch v.typ {
	case TypeInteger:
		return v.i
	case TypeReal:
		return v.f
	default:
		return v.s
	}
}

// FromArg converts a value scanned from database/sql back into a Value.
// The sqlite driver hands back int64, float64, string, []byte or nil.
func FromArg(arg any) (Value, error) {
	switch v := arg.(type) {
	case nil:
		return Null(TypeText), nil
	case int64:
		return Integer(v), nil
	case float64:
		return Real(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Text(string(v)), nil
	default:
		return Value{}, fmt.Errorf("unsupported column value type %T", arg)
	}
}

// Field is one named value of a record, keyed by the source attribute name
// (e.g. "@UserId").
type Field struct {
	Name  string
	Value Value
}

// Record is the schema descriptor a type implements to be storable. Fields
// must return the full declared field list, absent optionals included, in
// declaration order.
type Record interface {
	Fields() []Field
}
