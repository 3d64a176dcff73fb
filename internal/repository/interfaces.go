package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
)

// SessionFilter restricts a session listing. Zero values impose no
// restriction. From is inclusive and To is exclusive on start_time.
type SessionFilter struct {
	UserID      string
	BreakTypeID string
	Status      domain.SessionStatus
	From        *time.Time
	To          *time.Time
	Limit       int
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	Upsert(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type BreakTypeRepo interface {
	Create(ctx context.Context, b *domain.BreakType) error
	Upsert(ctx context.Context, b *domain.BreakType) error
	GetByID(ctx context.Context, id string) (*domain.BreakType, error)
	List(ctx context.Context) ([]*domain.BreakType, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.BreakSession) error
	GetByID(ctx context.Context, id string) (*domain.BreakSession, error)
	FindOngoingByUser(ctx context.Context, userID string) (*domain.BreakSession, error)
	Update(ctx context.Context, s *domain.BreakSession) error
	List(ctx context.Context, f SessionFilter) ([]*domain.SessionDetail, error)
}
