package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/google/uuid"
)

type catalogService struct {
	users repository.UserRepo
	types repository.BreakTypeRepo
	uow   db.UnitOfWork
	options
}

// NewCatalogService manages the agents and break types that sessions
// reference.
func NewCatalogService(users repository.UserRepo, types repository.BreakTypeRepo, uow db.UnitOfWork, opts ...Option) CatalogService {
	return &catalogService{users: users, types: types, uow: uow, options: buildOptions(opts)}
}

func (s *catalogService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *catalogService) CreateUser(ctx context.Context, u *domain.User) error {
	normalizeUser(u)
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = s.now().UTC()
	return s.users.Create(ctx, u)
}

func (s *catalogService) ListBreakTypes(ctx context.Context) ([]*domain.BreakType, error) {
	return s.types.List(ctx)
}

func (s *catalogService) CreateBreakType(ctx context.Context, b *domain.BreakType) error {
	b.Name = strings.TrimSpace(b.Name)
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = s.now().UTC()
	return s.types.Create(ctx, b)
}

// Seed upserts users and break types in one transaction. Entries without
// an ID are rejected so that reseeding stays idempotent.
func (s *catalogService) Seed(ctx context.Context, users []*domain.User, types []*domain.BreakType) (result *SeedResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"users": len(users), "break_types": len(types)}
	defer observe(ctx, s.observer, "seed-catalog", startedAt, fields, &err)

	for _, u := range users {
		normalizeUser(u)
		if u.ID == "" {
			return nil, &domain.ValidationError{Field: "user.id", Value: u.Name, Reason: "is required when seeding"}
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
	}
	for _, b := range types {
		b.Name = strings.TrimSpace(b.Name)
		if b.ID == "" {
			return nil, &domain.ValidationError{Field: "breakType.id", Value: b.Name, Reason: "is required when seeding"}
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("break type %s: %w", b.ID, err)
		}
	}

	now := s.now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		txTypes := repository.NewSQLiteBreakTypeRepo(tx)
		for _, u := range users {
			u.CreatedAt = now
			if err := txUsers.Upsert(ctx, u); err != nil {
				return err
			}
		}
		for _, b := range types {
			b.CreatedAt = now
			if err := txTypes.Upsert(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SeedResult{Users: len(users), BreakTypes: len(types)}, nil
}

func normalizeUser(u *domain.User) {
	u.ID = strings.TrimSpace(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = domain.RoleAgent
	}
}
