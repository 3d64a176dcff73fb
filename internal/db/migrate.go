package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillExpectedEnd(db); err != nil {
		return fmt.Errorf("backfilling expected_end_time: %w", err)
	}
	if err := ensureOneOngoingIndex(db); err != nil {
		return fmt.Errorf("creating one-ongoing index: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'agent'
		           CHECK(role IN ('agent','manager','admin')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS break_types (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		duration_sec INTEGER NOT NULL CHECK(duration_sec > 0),
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS break_sessions (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id),
		break_type_id TEXT NOT NULL REFERENCES break_types(id),
		start_time    TEXT NOT NULL,
		end_time      TEXT,
		status        TEXT NOT NULL DEFAULT 'ONGOING'
		              CHECK(status IN ('ONGOING','ENDED')),
		violation_sec INTEGER NOT NULL DEFAULT 0 CHECK(violation_sec >= 0),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		CHECK((status = 'ONGOING' AND end_time IS NULL) OR (status = 'ENDED' AND end_time IS NOT NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_break_sessions_user ON break_sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_break_sessions_type ON break_sessions(break_type_id)`,
	`CREATE INDEX IF NOT EXISTS idx_break_sessions_start ON break_sessions(start_time)`,

	// expected_end_time was derived on read before it was stored.
	`ALTER TABLE break_sessions ADD COLUMN expected_end_time TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillExpectedEnd fills expected_end_time for rows written
// before the column existed, using the break type's duration.
// Idempotent: only rows with an empty value are touched.
func migrateBackfillExpectedEnd(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM break_sessions WHERE expected_end_time = ''`).Scan(&count); err != nil {
		return fmt.Errorf("counting rows to backfill: %w", err)
	}
	if count == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx, `SELECT s.id, s.start_time, t.duration_sec
		FROM break_sessions s
		JOIN break_types t ON t.id = s.break_type_id
		WHERE s.expected_end_time = ''`)
	if err != nil {
		return fmt.Errorf("listing rows to backfill: %w", err)
	}
	type pending struct {
		id       string
		expected string
	}
	var updates []pending
	for rows.Next() {
		var id, start string
		var durationSec int64
		if err := rows.Scan(&id, &start, &durationSec); err != nil {
			rows.Close()
			return fmt.Errorf("scanning row to backfill: %w", err)
		}
		st, err := ParseTime(start)
		if err != nil {
			rows.Close()
			return fmt.Errorf("parsing start_time of %s: %w", id, err)
		}
		updates = append(updates, pending{id: id, expected: FormatTime(st.Add(secondsToDuration(durationSec)))})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows to backfill: %w", err)
	}

	for _, u := range updates {
		if _, err := db.ExecContext(ctx,
			`UPDATE break_sessions SET expected_end_time = ? WHERE id = ? AND expected_end_time = ''`,
			u.expected, u.id); err != nil {
			return fmt.Errorf("updating expected_end_time of %s: %w", u.id, err)
		}
	}
	return nil
}

// ensureOneOngoingIndex creates the partial unique index that allows at
// most one ONGOING session per user. It refuses to run over data that
// already violates it rather than silently closing sessions.
func ensureOneOngoingIndex(db *sql.DB) error {
	ctx := context.Background()

	var dupUser sql.NullString
	err := db.QueryRowContext(ctx, `SELECT user_id FROM break_sessions
		WHERE status = 'ONGOING'
		GROUP BY user_id HAVING COUNT(*) > 1
		LIMIT 1`).Scan(&dupUser)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("checking duplicate ongoing sessions: %w", err)
	}
	if dupUser.Valid {
		return fmt.Errorf("user %s has more than one ONGOING session; end the extra sessions first", dupUser.String)
	}

	_, err = db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_break_sessions_one_ongoing
		ON break_sessions(user_id) WHERE status = 'ONGOING'`)
	return err
}
