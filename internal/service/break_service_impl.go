package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/google/uuid"
)

type breakService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	options
}

// NewBreakService builds the lifecycle service. Writes run inside uow with
// tx-scoped repositories; sessions serves reads outside a transaction.
func NewBreakService(sessions repository.SessionRepo, uow db.UnitOfWork, opts ...Option) BreakService {
	return &breakService{sessions: sessions, uow: uow, options: buildOptions(opts)}
}

func (s *breakService) StartBreak(ctx context.Context, agentID, breakTypeID string) (detail *domain.SessionDetail, err error) {
	startedAt := time.Now()
	agentID, breakTypeID = strings.TrimSpace(agentID), strings.TrimSpace(breakTypeID)
	fields := map[string]any{"agent_id": agentID, "break_type_id": breakTypeID}
	defer observe(ctx, s.observer, "start-break", startedAt, fields, &err)

	if agentID == "" {
		return nil, &domain.ValidationError{Field: "agentId", Reason: "is required"}
	}
	if breakTypeID == "" {
		return nil, &domain.ValidationError{Field: "breakTypeId", Reason: "is required"}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		txTypes := repository.NewSQLiteBreakTypeRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)

		user, err := txUsers.GetByID(ctx, agentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &domain.ValidationError{Field: "agentId", Value: agentID, Reason: "unknown agent"}
			}
			return fmt.Errorf("loading agent: %w", err)
		}
		bt, err := txTypes.GetByID(ctx, breakTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &domain.ValidationError{Field: "breakTypeId", Value: breakTypeID, Reason: "unknown break type"}
			}
			return fmt.Errorf("loading break type: %w", err)
		}

		ongoing, err := txSessions.FindOngoingByUser(ctx, agentID)
		switch {
		case err == nil:
			return &domain.ConflictError{AgentID: agentID, SessionID: ongoing.ID}
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("checking ongoing break: %w", err)
		}

		session := domain.BeginBreak(uuid.New().String(), agentID, bt, s.now().UTC())
		if err := txSessions.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrOngoingExists) {
				return &domain.ConflictError{AgentID: agentID}
			}
			return fmt.Errorf("creating break session: %w", err)
		}
		fields["session_id"] = session.ID

		detail = &domain.SessionDetail{
			BreakSession:  *session,
			AgentName:     user.Name,
			BreakTypeName: bt.Name,
			AllottedSec:   bt.DurationSec,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *breakService) EndBreak(ctx context.Context, agentID string) (detail *domain.SessionDetail, err error) {
	startedAt := time.Now()
	agentID = strings.TrimSpace(agentID)
	fields := map[string]any{"agent_id": agentID}
	defer observe(ctx, s.observer, "end-break", startedAt, fields, &err)

	if agentID == "" {
		return nil, &domain.ValidationError{Field: "agentId", Reason: "is required"}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		txTypes := repository.NewSQLiteBreakTypeRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)

		session, err := txSessions.FindOngoingByUser(ctx, agentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &domain.NotFoundError{AgentID: agentID}
			}
			return fmt.Errorf("finding ongoing break: %w", err)
		}

		// The allotment is fixed when the break starts; a later change to
		// the break type does not move it.
		detail = &domain.SessionDetail{
			AllottedSec: int64(session.ExpectedEndTime.Sub(session.StartTime) / time.Second),
		}
		bt, err := txTypes.GetByID(ctx, session.BreakTypeID)
		switch {
		case err == nil:
			detail.BreakTypeName = bt.Name
			if detail.AllottedSec <= 0 {
				detail.AllottedSec = bt.DurationSec
			}
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("loading break type: %w", err)
		}
		if user, err := txUsers.GetByID(ctx, agentID); err == nil {
			detail.AgentName = user.Name
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loading agent: %w", err)
		}

		if err := session.End(s.now().UTC(), detail.AllottedSec); err != nil {
			return err
		}
		if err := txSessions.Update(ctx, session); err != nil {
			if errors.Is(err, repository.ErrAlreadyEnded) {
				return &domain.NotFoundError{AgentID: agentID}
			}
			return fmt.Errorf("ending break session: %w", err)
		}
		fields["session_id"] = session.ID
		fields["violation_sec"] = session.ViolationSec

		detail.BreakSession = *session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Current returns the agent's ongoing session, or a NotFoundError.
func (s *breakService) Current(ctx context.Context, agentID string) (*domain.SessionDetail, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, &domain.ValidationError{Field: "agentId", Reason: "is required"}
	}
	details, err := s.sessions.List(ctx, repository.SessionFilter{
		UserID: agentID,
		Status: domain.SessionOngoing,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("loading current break: %w", err)
	}
	if len(details) == 0 {
		return nil, &domain.NotFoundError{AgentID: agentID}
	}
	return details[0], nil
}
