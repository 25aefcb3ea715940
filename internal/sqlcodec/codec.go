package sqlcodec

import (
	"fmt"
	"strings"
)

// Column is one derived (name, type) pair of a table schema.
type Column struct {
	Name string
	Type Type
}

// Schema is the ordered column list derived from the first record of a
// stream, plus the table it targets. Table names are bracketed in generated
// SQL, so site names containing dots ("stackoverflow.com") are fine.
type Schema struct {
	Table   string
	Columns []Column
}

// DeriveSchema builds the schema for table from one record instance.
func DeriveSchema(table string, rec Record) (Schema, error) {
	fields := rec.Fields()
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("derive schema for %s: record has no fields", table)
	}
	cols := make([]Column, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		name := ColumnName(f.Name)
		if name == "" {
			return Schema{}, fmt.Errorf("derive schema for %s: field %d has empty name", table, i)
		}
		if _, dup := seen[name]; dup {
			return Schema{}, fmt.Errorf("derive schema for %s: duplicate column %q", table, name)
		}
		seen[name] = struct{}{}
		cols[i] = Column{Name: name, Type: f.Value.Type()}
	}
	return Schema{Table: table, Columns: cols}, nil
}

// CreateStatement returns the CREATE TABLE IF NOT EXISTS statement. A column
// named "id" is always declared INTEGER PRIMARY KEY UNIQUE, whatever type its
// values carry.
func (s Schema) CreateStatement() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS [")
	b.WriteString(s.Table)
	b.WriteString("] (")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Name)
		b.WriteByte(' ')
		if c.Name == "id" {
			b.WriteString("INTEGER PRIMARY KEY UNIQUE")
		} else {
			b.WriteString(c.Type.String())
		}
	}
	b.WriteString(");")
	return b.String()
}

// InsertStatement returns the positional parameterized INSERT statement.
func (s Schema) InsertStatement() string {
	var b strings.Builder
	b.WriteString("INSERT INTO [")
	b.WriteString(s.Table)
	b.WriteString("] (")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Name)
	}
	b.WriteString(") VALUES (")
	for i := range s.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('?')
	}
	b.WriteString(");")
	return b.String()
}

// Bind returns the ordered driver arguments for one record. It rejects
// records whose field count differs from the schema; positional binding
// would silently shear the row otherwise.
func (s Schema) Bind(rec Record) ([]any, error) {
	fields := rec.Fields()
	if len(fields) != len(s.Columns) {
		return nil, fmt.Errorf("bind %s: record has %d fields, schema has %d columns",
			s.Table, len(fields), len(s.Columns))
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f.Value.Arg()
	}
	return args, nil
}

// DecodeRow pairs scanned column values with attribute-style names, the
// reverse of the encode path. cols and args must be parallel.
func DecodeRow(cols []string, args []any) ([]Field, error) {
	if len(cols) != len(args) {
		return nil, fmt.Errorf("decode row: %d columns, %d values", len(cols), len(args))
	}
	fields := make([]Field, len(cols))
	for i, col := range cols {
		v, err := FromArg(args[i])
		if err != nil {
			return nil, fmt.Errorf("decode row: column %q: %w", col, err)
		}
		fields[i] = Field{Name: AttrName(col), Value: v}
	}
	return fields, nil
}
