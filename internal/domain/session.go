package domain

import "time"

// BreakSession is one break taken by an agent. EndTime is nil while the
// session is ongoing. ViolationSec is zero unless the session ended after
// its allotted duration.
type BreakSession struct {
	ID              string
	UserID          string
	BreakTypeID     string
	StartTime       time.Time
	EndTime         *time.Time
	ExpectedEndTime time.Time
	Status          SessionStatus
	ViolationSec    int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BeginBreak builds a new ongoing session for the agent starting now.
func BeginBreak(id, agentID string, bt *BreakType, now time.Time) *BreakSession {
	return &BreakSession{
		ID:              id,
		UserID:          agentID,
		BreakTypeID:     bt.ID,
		StartTime:       now,
		ExpectedEndTime: now.Add(bt.Allotted()),
		Status:          SessionOngoing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsOngoing reports whether the session has not been ended yet.
func (s *BreakSession) IsOngoing() bool {
	return s.Status == SessionOngoing
}

// End closes the session at now and records any violation against the
// allotted seconds. Ending twice is an error; the first end is kept.
func (s *BreakSession) End(now time.Time, allottedSec int64) error {
	if !s.IsOngoing() || s.EndTime != nil {
		return &NotFoundError{AgentID: s.UserID}
	}
	end := now
	s.EndTime = &end
	s.Status = SessionEnded
	s.ViolationSec = ViolationSeconds(s.ElapsedSeconds(now), allottedSec)
	s.UpdatedAt = now
	return nil
}

// ElapsedSeconds returns the whole seconds between start and the session's
// end, or between start and now while it is still ongoing. Never negative.
func (s *BreakSession) ElapsedSeconds(now time.Time) int64 {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	secs := int64(end.Sub(s.StartTime) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// DurationSeconds is the elapsed time of an ended session; ongoing
// sessions count as zero.
func (s *BreakSession) DurationSeconds() int64 {
	if s.EndTime == nil {
		return 0
	}
	return s.ElapsedSeconds(*s.EndTime)
}

// ViolationSeconds is elapsed minus allotted, floored at zero.
func ViolationSeconds(elapsedSec, allottedSec int64) int64 {
	if over := elapsedSec - allottedSec; over > 0 {
		return over
	}
	return 0
}

// SessionDetail is a session joined with the display names of its agent
// and break type. Names are empty when the reference is unresolved.
type SessionDetail struct {
	BreakSession
	AgentName     string
	BreakTypeName string
	AllottedSec   int64
}
