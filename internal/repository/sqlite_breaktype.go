package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
)

// SQLiteBreakTypeRepo implements BreakTypeRepo using a SQLite database.
type SQLiteBreakTypeRepo struct {
	db db.DBTX
}

// NewSQLiteBreakTypeRepo creates a new SQLiteBreakTypeRepo.
func NewSQLiteBreakTypeRepo(conn db.DBTX) *SQLiteBreakTypeRepo {
	return &SQLiteBreakTypeRepo{db: conn}
}

func (r *SQLiteBreakTypeRepo) Create(ctx context.Context, b *domain.BreakType) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO break_types (id, name, duration_sec, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, b.DurationSec, db.FormatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting break type: %w", err)
	}
	return nil
}

// Upsert inserts the break type or updates its name and duration.
// Sessions already started keep the allotment fixed at start, and their
// violation is scored against it.
func (r *SQLiteBreakTypeRepo) Upsert(ctx context.Context, b *domain.BreakType) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO break_types (id, name, duration_sec, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, duration_sec = excluded.duration_sec`,
		b.ID, b.Name, b.DurationSec, db.FormatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("upserting break type: %w", err)
	}
	return nil
}

func (r *SQLiteBreakTypeRepo) GetByID(ctx context.Context, id string) (*domain.BreakType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, duration_sec, created_at FROM break_types WHERE id = ?`, id)
	b, err := scanBreakType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("break type %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBreakTypeRepo) List(ctx context.Context) ([]*domain.BreakType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, duration_sec, created_at FROM break_types ORDER BY duration_sec, name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing break types: %w", err)
	}
	defer rows.Close()

	var types []*domain.BreakType
	for rows.Next() {
		b, err := scanBreakType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating break types: %w", err)
	}
	return types, nil
}

func scanBreakType(row rowScanner) (*domain.BreakType, error) {
	var b domain.BreakType
	var createdAt string
	if err := row.Scan(&b.ID, &b.Name, &b.DurationSec, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning break type: %w", err)
	}
	t, err := db.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing break type created_at: %w", err)
	}
	b.CreatedAt = t
	return &b, nil
}
