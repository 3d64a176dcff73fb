package report

import (
	"sort"
	"strings"

	"github.com/alexanderramin/breakdesk/internal/domain"
)

// SortKey selects the ordering of a history view.
type SortKey string

const (
	SortNone       SortKey = ""
	SortRecent     SortKey = "recent"
	SortOldest     SortKey = "oldest"
	SortLongest    SortKey = "longest"
	SortViolations SortKey = "violations"
	SortAgent      SortKey = "agent"
)

// ValidSortKeys lists the accepted sort key strings.
var ValidSortKeys = []SortKey{SortRecent, SortOldest, SortLongest, SortViolations, SortAgent}

// ParseSortKey accepts a sort key name; "duration" is an alias of longest.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortRecent, SortOldest, SortLongest, SortViolations, SortAgent:
		return k, nil
	case "duration":
		return SortLongest, nil
	default:
		return "", &domain.ValidationError{Field: "sort", Value: s, Reason: "must be one of recent, oldest, longest, violations, agent"}
	}
}

// Sort returns a sorted copy of sessions with nil entries dropped. Ties
// keep their input order.
//
//   - recent: start time, newest first
//   - oldest: start time, oldest first
//   - longest: elapsed time of ended sessions, longest first; ongoing count as zero
//   - violations: violation seconds, largest first
//   - agent: agent name ascending, case-insensitive; unknown names sort as ""
func Sort(sessions []*domain.SessionDetail, key SortKey) []*domain.SessionDetail {
	out := make([]*domain.SessionDetail, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			out = append(out, s)
		}
	}

	var less func(a, b *domain.SessionDetail) bool
	switch key {
	case SortRecent:
		less = func(a, b *domain.SessionDetail) bool { return a.StartTime.After(b.StartTime) }
	case SortOldest:
		less = func(a, b *domain.SessionDetail) bool { return a.StartTime.Before(b.StartTime) }
	case SortLongest:
		less = func(a, b *domain.SessionDetail) bool { return a.DurationSeconds() > b.DurationSeconds() }
	case SortViolations:
		less = func(a, b *domain.SessionDetail) bool { return a.ViolationSec > b.ViolationSec }
	case SortAgent:
		less = func(a, b *domain.SessionDetail) bool {
			return strings.ToLower(a.AgentName) < strings.ToLower(b.AgentName)
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
