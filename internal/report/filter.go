package report

import (
	"strings"

	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/gobwas/glob"
)

// Filter returns the sessions matching every set criterion, in input order.
func Filter(sessions []*domain.SessionDetail, c Criteria) []*domain.SessionDetail {
	window, hasWindow := c.Window()
	match := nameMatcher(c.AgentName)

	out := make([]*domain.SessionDetail, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if c.AgentID != "" && s.UserID != c.AgentID {
			continue
		}
		if c.BreakTypeID != "" && s.BreakTypeID != c.BreakTypeID {
			continue
		}
		if c.Status != "" && s.Status != c.Status {
			continue
		}
		if hasWindow && !window.Contains(s.StartTime) {
			continue
		}
		if match != nil && !match(s.AgentName) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// nameMatcher builds a case-insensitive matcher for an agent-name search.
// Returns nil for an empty search. Unknown (empty) names never match.
func nameMatcher(search string) func(string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return nil
	}
	if strings.ContainsAny(search, "*?") {
		if g, err := glob.Compile(search); err == nil {
			return func(name string) bool {
				return name != "" && g.Match(strings.ToLower(name))
			}
		}
	}
	return func(name string) bool {
		return name != "" && strings.Contains(strings.ToLower(name), search)
	}
}
