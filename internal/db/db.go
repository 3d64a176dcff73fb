package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// busyTimeoutMs bounds how long a writer waits for the SQLite write lock
// before failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database limited to a single
// connection so every caller sees the same schema.
// File databases use WAL mode and take the write lock when a transaction
// begins, which serializes check-then-insert sequences across connections.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = fileDSN(path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	} else {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// fileDSN builds a modernc.org/sqlite DSN whose pragmas apply to every
// pooled connection, not just the first one.
func fileDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs))
	q.Add("_pragma", "foreign_keys(1)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}
