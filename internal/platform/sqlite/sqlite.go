// Package sqlite opens the dump database with the pragmas the rest of the
// program relies on. Tables are created per site from derived record
// schemas, so there is no fixed migration to run here.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Register sqlite driver
)

type DB struct {
	*sql.DB
}

func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// In-memory databases are per-connection; multiple connections each get a
	// separate empty database. Limit to one connection so all callers see the
	// same data.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL keeps readers usable while whole-file load transactions run.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	return &DB{db}, nil
}
