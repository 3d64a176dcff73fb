package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/breakdesk/internal/db"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := db.ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTimeToString converts a *time.Time to a value suitable for
// SQLite storage, or nil (SQL NULL).
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.FormatTime(*t)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
