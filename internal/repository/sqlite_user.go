package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, string(u.Role), db.FormatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// Upsert inserts the user or updates its name and role, keeping created_at.
func (r *SQLiteUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`,
		u.ID, u.Name, string(u.Role), db.FormatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, created_at FROM users ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role, createdAt string
	if err := row.Scan(&u.ID, &u.Name, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = domain.UserRole(role)
	t, err := db.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing user created_at: %w", err)
	}
	u.CreatedAt = t
	return &u, nil
}
