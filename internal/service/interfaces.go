package service

import (
	"context"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/domain"
)

// BreakService is the session lifecycle: at most one ongoing break per
// agent, ended exactly once.
type BreakService interface {
	StartBreak(ctx context.Context, agentID, breakTypeID string) (*domain.SessionDetail, error)
	EndBreak(ctx context.Context, agentID string) (*domain.SessionDetail, error)
	Current(ctx context.Context, agentID string) (*domain.SessionDetail, error)
}

type HistoryService interface {
	AgentHistory(ctx context.Context, agentID string) ([]app.SessionView, error)
	History(ctx context.Context, req app.HistoryRequest) (*app.HistoryResponse, error)
	Report(ctx context.Context, req app.ReportRequest) (*app.ReportResponse, error)
}

type CatalogService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	ListBreakTypes(ctx context.Context) ([]*domain.BreakType, error)
	CreateBreakType(ctx context.Context, b *domain.BreakType) error
	Seed(ctx context.Context, users []*domain.User, types []*domain.BreakType) (*SeedResult, error)
}

type SeedResult struct {
	Users      int
	BreakTypes int
}
