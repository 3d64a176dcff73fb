package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/report"
	"github.com/alexanderramin/breakdesk/internal/repository"
)

type historyService struct {
	sessions repository.SessionRepo
	options
}

// NewHistoryService serves history and report views. Sessions are fetched
// once per request and aggregated in memory.
func NewHistoryService(sessions repository.SessionRepo, opts ...Option) HistoryService {
	return &historyService{sessions: sessions, options: buildOptions(opts)}
}

// AgentHistory lists one agent's sessions, most recent first.
func (s *historyService) AgentHistory(ctx context.Context, agentID string) ([]app.SessionView, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, &domain.ValidationError{Field: "agentId", Reason: "is required"}
	}
	details, err := s.sessions.List(ctx, repository.SessionFilter{UserID: agentID})
	if err != nil {
		return nil, fmt.Errorf("listing agent history: %w", err)
	}
	return app.NewSessionViews(report.Sort(details, report.SortRecent), s.now()), nil
}

func (s *historyService) History(ctx context.Context, req app.HistoryRequest) (resp *app.HistoryResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"range": req.Range, "sort": req.Sort}
	defer observe(ctx, s.observer, "history", startedAt, fields, &err)

	now := s.now()
	criteria, key, err := req.Criteria(now)
	if err != nil {
		return nil, err
	}

	// Push the indexed criteria down; Filter re-applies all of them and
	// adds the name search.
	f := repository.SessionFilter{
		UserID:      criteria.AgentID,
		BreakTypeID: criteria.BreakTypeID,
		Status:      criteria.Status,
	}
	if w, ok := criteria.Window(); ok {
		f.From, f.To = &w.Start, &w.End
	}
	details, err := s.sessions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	if key == report.SortNone {
		key = report.SortRecent
	}
	sessions := report.Sort(report.Filter(details, criteria), key)
	fields["session_count"] = len(sessions)
	return app.NewHistoryResponse(sessions, now), nil
}

func (s *historyService) Report(ctx context.Context, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"start_date": req.StartDate, "end_date": req.EndDate, "user_id": req.UserID}
	defer observe(ctx, s.observer, "report", startedAt, fields, &err)

	now := s.now()
	from, to, err := req.Bounds(now.Location())
	if err != nil {
		return nil, err
	}
	details, err := s.sessions.List(ctx, repository.SessionFilter{
		UserID: strings.TrimSpace(req.UserID),
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("listing report sessions: %w", err)
	}

	sessions := report.Sort(details, report.SortRecent)
	fields["session_count"] = len(sessions)
	return &app.ReportResponse{
		Start:           from,
		End:             to,
		HistoryResponse: *app.NewHistoryResponse(sessions, now),
	}, nil
}
