package store

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ecorbel/sedump/internal/platform/sqlite"
	"github.com/ecorbel/sedump/internal/sqlcodec"
)

type fakeRecord struct {
	fields []sqlcodec.Field
}

func (r fakeRecord) Fields() []sqlcodec.Field { return r.fields }

// sliceSource yields its records in order, then io.EOF, or an injected error
// at a given position.
type sliceSource struct {
	recs  []sqlcodec.Record
	errAt int
	err   error
	pos   int
}

func (s *sliceSource) Next() (sqlcodec.Record, error) {
	if s.err != nil && s.pos == s.errAt {
		return nil, s.err
	}
	if s.pos >= len(s.recs) {
		return nil, io.EOF
	}
	rec := s.recs[s.pos]
	s.pos++
	return rec, nil
}

func newWriter(t *testing.T) *Writer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWriter(db.DB)
}

func rec(id int64, name string) sqlcodec.Record {
	return fakeRecord{fields: []sqlcodec.Field{
		{Name: "@Id", Value: sqlcodec.Integer(id)},
		{Name: "@Name", Value: sqlcodec.Text(name)},
	}}
}

func TestLoadTable(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	n, err := w.LoadTable(ctx, "acme_Badge", &sliceSource{recs: []sqlcodec.Record{
		rec(1, "Autobiographer"),
		rec(2, "Teacher"),
	}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted %d rows, want 2", n)
	}

	exists, err := w.TableExists(ctx, "acme_Badge")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("table should exist after load")
	}

	cols, rows, err := w.ReadTable(ctx, "acme_Badge")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][0].Int64() != 1 || rows[0][1].Text() != "Autobiographer" {
		t.Errorf("row 0 = %v", rows[0])
	}
}

func TestLoadTable_EmptySourceCreatesNoTable(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	n, err := w.LoadTable(ctx, "acme_Badge", &sliceSource{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted %d rows, want 0", n)
	}

	exists, err := w.TableExists(ctx, "acme_Badge")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("empty source must not create a table")
	}
}

func TestLoadTable_FailureLeavesNoTable(t *testing.T) {
	// A mid-file error must roll back the whole transaction, create included,
	// so a later run sees no table and starts over.
	w := newWriter(t)
	ctx := context.Background()

	src := &sliceSource{
		recs:  []sqlcodec.Record{rec(1, "a"), rec(2, "b")},
		errAt: 1,
		err:   io.ErrUnexpectedEOF,
	}
	if _, err := w.LoadTable(ctx, "acme_Badge", src); err == nil {
		t.Fatal("expected error")
	}

	exists, err := w.TableExists(ctx, "acme_Badge")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("failed load must not leave the table behind")
	}
}

func TestLoadTable_ArityMismatch(t *testing.T) {
	w := newWriter(t)

	short := fakeRecord{fields: []sqlcodec.Field{
		{Name: "@Id", Value: sqlcodec.Integer(2)},
	}}
	src := &sliceSource{recs: []sqlcodec.Record{rec(1, "a"), short}}
	_, err := w.LoadTable(context.Background(), "acme_Badge", src)
	if err == nil || !strings.Contains(err.Error(), "record 2") {
		t.Errorf("err = %v, want binding failure on record 2", err)
	}
}

func TestLoadTable_DuplicateID(t *testing.T) {
	w := newWriter(t)

	src := &sliceSource{recs: []sqlcodec.Record{rec(7, "a"), rec(7, "b")}}
	if _, err := w.LoadTable(context.Background(), "acme_Badge", src); err == nil {
		t.Error("expected unique constraint violation")
	}
}

func TestLoadTable_NullStoredAsNull(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	src := &sliceSource{recs: []sqlcodec.Record{fakeRecord{fields: []sqlcodec.Field{
		{Name: "@Id", Value: sqlcodec.Integer(1)},
		{Name: "@UserId", Value: sqlcodec.Null(sqlcodec.TypeInteger)},
	}}}}
	if _, err := w.LoadTable(ctx, "acme_Post", src); err != nil {
		t.Fatal(err)
	}

	_, rows, err := w.ReadTable(ctx, "acme_Post")
	if err != nil {
		t.Fatal(err)
	}
	if !rows[0][1].IsNull() {
		t.Errorf("user_id = %v, want SQL NULL", rows[0][1])
	}
}

func TestTableExists_Missing(t *testing.T) {
	w := newWriter(t)
	exists, err := w.TableExists(context.Background(), "no_such_table")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("missing table reported as existing")
	}
}

func TestReadTable_Missing(t *testing.T) {
	w := newWriter(t)
	if _, _, err := w.ReadTable(context.Background(), "no_such_table"); err == nil {
		t.Error("expected error for missing table")
	}
}
