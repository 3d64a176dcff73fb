package app

import (
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
)

// SessionView is the wire and display shape of a break session.
type SessionView struct {
	ID              string               `json:"id"`
	AgentID         string               `json:"agentId"`
	AgentName       string               `json:"agentName"`
	BreakTypeID     string               `json:"breakTypeId"`
	BreakTypeName   string               `json:"breakTypeName"`
	Status          domain.SessionStatus `json:"status"`
	StartTime       time.Time            `json:"startTime"`
	EndTime         *time.Time           `json:"endTime"`
	ExpectedEndTime time.Time            `json:"expectedEndTime"`
	AllottedSec     int64                `json:"allottedSeconds"`
	ElapsedSec      int64                `json:"elapsedSeconds"`
	RemainingSec    int64                `json:"remainingSeconds"`
	ViolationSec    int64                `json:"violationSeconds"`
}

// NewSessionView projects a session detail at now. For ongoing sessions
// elapsed and remaining run against now; remaining never goes below zero.
func NewSessionView(d *domain.SessionDetail, now time.Time) SessionView {
	v := SessionView{
		ID:              d.ID,
		AgentID:         d.UserID,
		AgentName:       domain.NameOrUnknown(d.AgentName),
		BreakTypeID:     d.BreakTypeID,
		BreakTypeName:   domain.NameOrUnknown(d.BreakTypeName),
		Status:          d.Status,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		ExpectedEndTime: d.ExpectedEndTime,
		AllottedSec:     d.AllottedSec,
		ElapsedSec:      d.ElapsedSeconds(now),
		ViolationSec:    d.ViolationSec,
	}
	if d.IsOngoing() && v.AllottedSec > v.ElapsedSec {
		v.RemainingSec = v.AllottedSec - v.ElapsedSec
	}
	return v
}

func NewSessionViews(details []*domain.SessionDetail, now time.Time) []SessionView {
	out := make([]SessionView, 0, len(details))
	for _, d := range details {
		if d != nil {
			out = append(out, NewSessionView(d, now))
		}
	}
	return out
}

// OvertimeSec is how far an ongoing session has run past its allotment.
// It is display-only; the recorded violation is set when the break ends.
func (v SessionView) OvertimeSec() int64 {
	if v.Status != domain.SessionOngoing {
		return 0
	}
	return domain.ViolationSeconds(v.ElapsedSec, v.AllottedSec)
}

type StartBreakRequest struct {
	AgentID     string `json:"agentId"`
	BreakTypeID string `json:"breakTypeId"`
}

type EndBreakRequest struct {
	AgentID string `json:"agentId"`
}
