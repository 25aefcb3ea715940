package sqlcodec

import "testing"

type fakeRecord struct {
	fields []Field
}

func (r fakeRecord) Fields() []Field { return r.fields }

func TestDeriveSchemaAndStatements(t *testing.T) {
	rec := fakeRecord{fields: []Field{
		{Name: "@Id", Value: Integer(1)},
		{Name: "@UserId", Value: Null(TypeInteger)},
		{Name: "@Score", Value: Real(0.5)},
		{Name: "@Text", Value: Text("hello")},
	}}

	schema, err := DeriveSchema("acme_Post", rec)
	if err != nil {
		t.Fatalf("derive schema: %v", err)
	}

	wantCreate := "CREATE TABLE IF NOT EXISTS [acme_Post] (id INTEGER PRIMARY KEY UNIQUE,user_id INTEGER,score REAL,text TEXT);"
	if got := schema.CreateStatement(); got != wantCreate {
		t.Errorf("create statement:\n got %s\nwant %s", got, wantCreate)
	}

	wantInsert := "INSERT INTO [acme_Post] (id,user_id,score,text) VALUES (?,?,?,?);"
	if got := schema.InsertStatement(); got != wantInsert {
		t.Errorf("insert statement:\n got %s\nwant %s", got, wantInsert)
	}
}

func TestDeriveSchema_NullDoesNotChangeType(t *testing.T) {
	// An absent optional keeps its declared type; the schema must not fall
	// back to TEXT because the first record had no value.
	rec := fakeRecord{fields: []Field{
		{Name: "@Id", Value: Integer(1)},
		{Name: "@ViewCount", Value: Null(TypeInteger)},
	}}
	schema, err := DeriveSchema("t", rec)
	if err != nil {
		t.Fatal(err)
	}
	if schema.Columns[1].Type != TypeInteger {
		t.Errorf("view_count type = %v, want INTEGER", schema.Columns[1].Type)
	}
}

func TestDeriveSchema_IdAlwaysIntegerPrimaryKey(t *testing.T) {
	// Votes carry their id as raw text; the column declaration must not care.
	rec := fakeRecord{fields: []Field{
		{Name: "@Id", Value: Text("42")},
		{Name: "@PostId", Value: Integer(7)},
	}}
	schema, err := DeriveSchema("acme_Vote", rec)
	if err != nil {
		t.Fatal(err)
	}
	want := "CREATE TABLE IF NOT EXISTS [acme_Vote] (id INTEGER PRIMARY KEY UNIQUE,post_id INTEGER);"
	if got := schema.CreateStatement(); got != want {
		t.Errorf("create statement = %s, want %s", got, want)
	}
}

func TestDeriveSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		rec  fakeRecord
	}{
		{"no fields", fakeRecord{}},
		{"duplicate column", fakeRecord{fields: []Field{
			{Name: "@Id", Value: Integer(1)},
			{Name: "@Id", Value: Integer(2)},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DeriveSchema("t", tt.rec); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBind(t *testing.T) {
	first := fakeRecord{fields: []Field{
		{Name: "@Id", Value: Integer(1)},
		{Name: "@Name", Value: Text("a")},
	}}
	schema, err := DeriveSchema("t", first)
	if err != nil {
		t.Fatal(err)
	}

	args, err := schema.Bind(fakeRecord{fields: []Field{
		{Name: "@Id", Value: Integer(2)},
		{Name: "@Name", Value: Null(TypeText)},
	}})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if args[0] != int64(2) {
		t.Errorf("args[0] = %v, want 2", args[0])
	}
	if args[1] != nil {
		t.Errorf("args[1] = %v, want nil", args[1])
	}
}

func TestBind_ArityMismatch(t *testing.T) {
	schema, err := DeriveSchema("t", fakeRecord{fields: []Field{
		{Name: "@Id", Value: Integer(1)},
		{Name: "@Name", Value: Text("a")},
	}})
	if err != nil {
		t.Fatal(err)
	}

	short := fakeRecord{fields: []Field{{Name: "@Id", Value: Integer(2)}}}
	if _, err := schema.Bind(short); err == nil {
		t.Error("expected arity mismatch error, got nil")
	}
}

func TestDecodeRow(t *testing.T) {
	fields, err := DecodeRow(
		[]string{"id", "user_id", "score"},
		[]any{int64(3), nil, 1.5},
	)
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if fields[0].Name != "@Id" || fields[0].Value.Int64() != 3 {
		t.Errorf("field 0 = %+v", fields[0])
	}
	if !fields[1].Value.IsNull() {
		t.Error("field 1 should be null")
	}
	if fields[2].Value.Type() != TypeReal || fields[2].Value.Float64() != 1.5 {
		t.Errorf("field 2 = %+v", fields[2])
	}
}

func TestDecodeRow_LengthMismatch(t *testing.T) {
	if _, err := DecodeRow([]string{"id"}, []any{int64(1), int64(2)}); err == nil {
		t.Error("expected error")
	}
}
