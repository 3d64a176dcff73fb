package app

import (
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/report"
)

// DateLayout is the calendar-date format accepted by history and report
// queries.
const DateLayout = "2006-01-02"

// HistoryRequest carries the manager history filters as received from a
// query string or CLI flags. Empty fields impose no restriction.
type HistoryRequest struct {
	AgentID     string
	BreakTypeID string
	Status      string
	AgentName   string
	Range       string
	Start       string
	End         string
	Sort        string
}

// Criteria parses the request against now. A date-only End covers that
// whole day.
func (r HistoryRequest) Criteria(now time.Time) (report.Criteria, report.SortKey, error) {
	c := report.Criteria{
		AgentID:     strings.TrimSpace(r.AgentID),
		BreakTypeID: strings.TrimSpace(r.BreakTypeID),
		AgentName:   r.AgentName,
		Now:         now,
	}

	var err error
	if c.Status, err = domain.ParseSessionStatus(strings.TrimSpace(r.Status)); err != nil {
		return report.Criteria{}, "", err
	}
	if c.Range, err = report.ParseDateRange(r.Range); err != nil {
		return report.Criteria{}, "", err
	}
	if c.Start, err = parseBound("start", r.Start, now.Location(), false); err != nil {
		return report.Criteria{}, "", err
	}
	if c.End, err = parseBound("end", r.End, now.Location(), true); err != nil {
		return report.Criteria{}, "", err
	}
	// Explicit bounds without a named range mean a custom range.
	if c.Range == report.RangeAll && (c.Start != nil || c.End != nil) {
		c.Range = report.RangeCustom
	}

	key, err := report.ParseSortKey(r.Sort)
	if err != nil {
		return report.Criteria{}, "", err
	}
	return c, key, nil
}

// HistoryResponse is a filtered, sorted session list with its aggregates.
type HistoryResponse struct {
	Sessions    []SessionView           `json:"sessions"`
	Summary     report.Summary          `json:"summary"`
	ByAgent     []report.AgentStats     `json:"byAgent"`
	ByBreakType []report.BreakTypeStats `json:"byBreakType"`
}

// NewHistoryResponse aggregates sessions that are already filtered and
// sorted.
func NewHistoryResponse(sessions []*domain.SessionDetail, now time.Time) *HistoryResponse {
	return &HistoryResponse{
		Sessions:    NewSessionViews(sessions, now),
		Summary:     report.Summarize(sessions),
		ByAgent:     report.AgentStatsList(report.GroupByAgent(sessions)),
		ByBreakType: report.BreakTypeStatsList(report.GroupByBreakType(sessions)),
	}
}

// ReportRequest bounds a report by calendar dates. Both dates are
// optional; EndDate is inclusive.
type ReportRequest struct {
	StartDate string
	EndDate   string
	UserID    string
}

// Bounds parses the dates in loc into a half-open [from, to) interval.
func (r ReportRequest) Bounds(loc *time.Location) (from, to *time.Time, err error) {
	if from, err = parseDate("startDate", r.StartDate, loc, false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate("endDate", r.EndDate, loc, true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, &domain.ValidationError{Field: "endDate", Value: r.EndDate, Reason: "must not be before startDate"}
	}
	return from, to, nil
}

type ReportResponse struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	HistoryResponse
}

// parseBound accepts a calendar date or an RFC 3339 timestamp.
func parseBound(field, s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return parseDate(field, s, loc, endOfDay)
}

// parseDate parses YYYY-MM-DD at midnight in loc. With endOfDay set the
// result is the following midnight, making the day inclusive.
func parseDate(field, s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Value: s, Reason: "expected YYYY-MM-DD"}
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
