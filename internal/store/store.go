// Package store owns the single write path into the dump database. Every
// statement, existence checks included, runs under one process-wide mutex,
// so concurrently running jobs never contend inside SQLite itself.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"github.com/ecorbel/sedump/internal/sqlcodec"
)

// RecordSource yields the records of one dump file. Next returns io.EOF
// after the last record.
type RecordSource interface {
	Next() (sqlcodec.Record, error)
}

// Writer is shared by all jobs; its mutex is the write token.
type Writer struct {
	db *sql.DB
	mu sync.Mutex
}

func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// TableExists reports whether a table is present. Because LoadTable commits
// the CREATE TABLE together with all rows, presence means the corresponding
// file was fully loaded.
func (w *Writer) TableExists(ctx context.Context, name string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var n string
	err := w.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return true, nil
}

// LoadTable streams every record of src into table inside one transaction.
// The schema is derived from the first record; later records must bind to the
// same column count. The table only becomes visible when the whole file has
// committed, which is what makes TableExists a reliable resume marker.
//
// A source with no records commits nothing and creates no table, so an empty
// file is revisited on the next run. Returns the number of rows inserted.
func (w *Writer) LoadTable(ctx context.Context, table string, src RecordSource) (int64, error) {
	first, err := src.Next()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", table, err)
	}

	schema, err := sqlcodec.DeriveSchema(table, first)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", table, err)
	}

	// The token is held for the whole file. Extraction and download of other
	// jobs proceed in parallel; only store access is serialized.
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("load %s: begin tx: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema.CreateStatement()); err != nil {
		return 0, fmt.Errorf("load %s: create table: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, schema.InsertStatement())
	if err != nil {
		return 0, fmt.Errorf("load %s: prepare insert: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	var count int64
	for rec := first; ; {
		args, err := schema.Bind(rec)
		if err != nil {
			return 0, fmt.Errorf("load %s: record %d: %w", table, count+1, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("load %s: insert record %d: %w", table, count+1, err)
		}
		count++

		rec, err = src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("load %s: record %d: %w", table, count+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("load %s: commit: %w", table, err)
	}
	return count, nil
}

// ReadTable returns the column names and all rows of a table, decoded back
// into typed values. Used by the export path.
func (w *Writer) ReadTable(ctx context.Context, table string) ([]string, [][]sqlcodec.Value, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM [%s]", table))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: columns: %w", table, err)
	}

	var out [][]sqlcodec.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("read %s: scan: %w", table, err)
		}
		vals := make([]sqlcodec.Value, len(cols))
		for i, arg := range raw {
			v, err := sqlcodec.FromArg(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: column %s: %w", table, cols[i], err)
			}
			vals[i] = v
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", table, err)
	}
	return cols, out, nil
}
