// Package report filters, sorts and aggregates break sessions for history
// and report views. Every function is pure: inputs are never mutated and
// equal inputs give equal outputs.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
)

// DateRange names a start-time window relative to Criteria.Now.
type DateRange string

const (
	RangeAll    DateRange = "all"
	RangeToday  DateRange = "today"
	RangeWeek   DateRange = "week"
	RangeMonth  DateRange = "month"
	RangeCustom DateRange = "custom"
)

// ParseDateRange accepts the named windows; empty means RangeAll.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeCustom:
		return r, nil
	default:
		return "", &domain.ValidationError{Field: "range", Value: s, Reason: "must be one of all, today, week, month, custom"}
	}
}

// Criteria selects sessions. Unset fields impose no restriction.
type Criteria struct {
	AgentID     string
	BreakTypeID string
	Status      domain.SessionStatus

	// AgentName matches the agent's display name case-insensitively, as a
	// substring or, when it contains * or ?, as a glob.
	AgentName string

	Range DateRange
	// Start and End bound RangeCustom; both are required for it to apply.
	Start *time.Time
	End   *time.Time

	// Now anchors the relative windows and must be set for them to apply.
	// Its location defines midnight.
	Now time.Time
}

// Window is a half-open [Start, End) interval on session start times.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// Window resolves the criteria's date range. ok is false when the range is
// unrestricted, including a custom range missing either bound and a
// relative range without Now. The wall clock is never consulted.
func (c Criteria) Window() (w Window, ok bool) {
	if c.Range == RangeCustom {
		if c.Start == nil || c.End == nil {
			return Window{}, false
		}
		return Window{Start: *c.Start, End: *c.End}, true
	}
	now := c.Now
	if now.IsZero() {
		return Window{}, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch c.Range {
	case RangeToday:
		return Window{Start: today, End: today.AddDate(0, 0, 1)}, true
	case RangeWeek:
		// Weeks start on Sunday.
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, true
	case RangeMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0)}, true
	default:
		return Window{}, false
	}
}
