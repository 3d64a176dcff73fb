package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
)

// sessionColumns is the canonical SELECT column list for break_sessions.
const sessionColumns = `id, user_id, break_type_id, start_time, end_time, expected_end_time,
		status, violation_sec, created_at, updated_at`

// sessionDetailColumns joins display names; unresolved references yield ''.
const sessionDetailColumns = `s.id, s.user_id, s.break_type_id, s.start_time, s.end_time, s.expected_end_time,
		s.status, s.violation_sec, s.created_at, s.updated_at,
		COALESCE(u.name, ''), COALESCE(t.name, ''), COALESCE(t.duration_sec, 0)`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.BreakSession) error {
	query := `INSERT INTO break_sessions (id, user_id, break_type_id, start_time, end_time, expected_end_time,
		status, violation_sec, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.BreakTypeID,
		db.FormatTime(s.StartTime),
		nullableTimeToString(s.EndTime),
		db.FormatTime(s.ExpectedEndTime),
		string(s.Status),
		s.ViolationSec,
		db.FormatTime(s.CreatedAt),
		db.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		if db.IsUniqueViolation(err) && s.Status == domain.SessionOngoing {
			return fmt.Errorf("inserting break session for user %s: %w", s.UserID, ErrOngoingExists)
		}
		return fmt.Errorf("inserting break session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.BreakSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM break_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("break session %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSessionRepo) FindOngoingByUser(ctx context.Context, userID string) (*domain.BreakSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM break_sessions WHERE user_id = ? AND status = 'ONGOING'`, userID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ongoing session for user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

// Update persists the end of a session. Only ONGOING rows are updated, so
// an ended session can never be re-opened or ended a second time.
func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.BreakSession) error {
	query := `UPDATE break_sessions
		SET end_time = ?, status = ?, violation_sec = ?, updated_at = ?
		WHERE id = ? AND status = 'ONGOING'`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.EndTime),
		string(s.Status),
		s.ViolationSec,
		db.FormatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating break session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("break session %s: %w", s.ID, ErrAlreadyEnded)
	}
	return nil
}

// List returns sessions joined with agent and break type names, most
// recent first. Sessions whose references no longer resolve are kept.
func (r *SQLiteSessionRepo) List(ctx context.Context, f SessionFilter) ([]*domain.SessionDetail, error) {
	var where []string
	var args []any
	if f.UserID != "" {
		where = append(where, "s.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.BreakTypeID != "" {
		where = append(where, "s.break_type_id = ?")
		args = append(args, f.BreakTypeID)
	}
	if f.Status != "" {
		where = append(where, "s.status = ?")
		args = append(args, string(f.Status))
	}
	if f.From != nil {
		where = append(where, "s.start_time >= ?")
		args = append(args, db.FormatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "s.start_time < ?")
		args = append(args, db.FormatTime(*f.To))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + sessionDetailColumns + `
		FROM break_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN break_types t ON t.id = s.break_type_id`)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY s.start_time DESC, s.id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing break sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.SessionDetail
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating break sessions: %w", err)
	}
	return out, nil
}

// rawSession holds the string columns of a session row before parsing.
type rawSession struct {
	start, expectedEnd, createdAt, updatedAt string
	end                                      sql.NullString
	status                                   string
}

func scanSession(row rowScanner) (*domain.BreakSession, error) {
	var s domain.BreakSession
	var raw rawSession
	err := row.Scan(&s.ID, &s.UserID, &s.BreakTypeID, &raw.start, &raw.end, &raw.expectedEnd,
		&raw.status, &s.ViolationSec, &raw.createdAt, &raw.updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning break session: %w", err)
	}
	if err := populateSession(&s, raw); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSessionDetail(row rowScanner) (*domain.SessionDetail, error) {
	var d domain.SessionDetail
	var raw rawSession
	s := &d.BreakSession
	err := row.Scan(&s.ID, &s.UserID, &s.BreakTypeID, &raw.start, &raw.end, &raw.expectedEnd,
		&raw.status, &s.ViolationSec, &raw.createdAt, &raw.updatedAt,
		&d.AgentName, &d.BreakTypeName, &d.AllottedSec)
	if err != nil {
		return nil, fmt.Errorf("scanning break session row: %w", err)
	}
	if err := populateSession(s, raw); err != nil {
		return nil, err
	}
	// The break type's current duration only stands in for rows that
	// predate a stored expected end.
	if s.ExpectedEndTime.After(s.StartTime) {
		d.AllottedSec = int64(s.ExpectedEndTime.Sub(s.StartTime) / time.Second)
	}
	return &d, nil
}

// populateSession fills in parsed fields after scanning raw strings.
func populateSession(s *domain.BreakSession, raw rawSession) error {
	var err error
	if s.StartTime, err = db.ParseTime(raw.start); err != nil {
		return fmt.Errorf("parsing start_time: %w", err)
	}
	if s.EndTime, err = parseNullableTime(raw.end); err != nil {
		return fmt.Errorf("parsing end_time: %w", err)
	}
	if s.ExpectedEndTime, err = db.ParseTime(raw.expectedEnd); err != nil {
		return fmt.Errorf("parsing expected_end_time: %w", err)
	}
	if s.CreatedAt, err = db.ParseTime(raw.createdAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = db.ParseTime(raw.updatedAt); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	s.Status = domain.SessionStatus(raw.status)
	return nil
}
