package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/google/uuid"
)

var testIDCounter atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, testIDCounter.Add(1))
}

// User options
type UserOption func(*domain.User)

func WithUserID(id string) UserOption {
	return func(u *domain.User) {
		u.ID = id
	}
}

func WithRole(r domain.UserRole) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        nextID("u"),
		Name:      name,
		Role:      domain.RoleAgent,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// BreakType options
type BreakTypeOption func(*domain.BreakType)

func WithBreakTypeID(id string) BreakTypeOption {
	return func(b *domain.BreakType) {
		b.ID = id
	}
}

func NewTestBreakType(name string, durationSec int64, opts ...BreakTypeOption) *domain.BreakType {
	b := &domain.BreakType{
		ID:          nextID("bt"),
		Name:        name,
		DurationSec: durationSec,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session options
type SessionOption func(*domain.BreakSession)

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.BreakSession) {
		s.StartTime = t
		s.CreatedAt = t
		s.UpdatedAt = t
	}
}

// WithEnded closes the session after elapsed, computing the violation
// against allottedSec the same way the lifecycle does.
func WithEnded(elapsed time.Duration, allottedSec int64) SessionOption {
	return func(s *domain.BreakSession) {
		_ = s.End(s.StartTime.Add(elapsed), allottedSec)
	}
}

// NewTestSession builds an ongoing session with a 15-minute expectation
// starting an hour ago. Options apply in order, so set the start time
// before WithEnded.
func NewTestSession(userID, breakTypeID string, opts ...SessionOption) *domain.BreakSession {
	start := time.Now().UTC().Add(-time.Hour)
	s := &domain.BreakSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		BreakTypeID: breakTypeID,
		StartTime:   start,
		Status:      domain.SessionOngoing,
		CreatedAt:   start,
		UpdatedAt:   start,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ExpectedEndTime = s.StartTime.Add(15 * time.Minute)
	return s
}

// NewTestDetail wraps a session with display names for aggregator tests.
func NewTestDetail(s *domain.BreakSession, agentName, breakTypeName string) *domain.SessionDetail {
	return &domain.SessionDetail{BreakSession: *s, AgentName: agentName, BreakTypeName: breakTypeName}
}
