package report

import (
	"sort"
	"strings"

	"github.com/alexanderramin/breakdesk/internal/domain"
)

// AgentStats aggregates the sessions of one agent.
type AgentStats struct {
	AgentID           string `json:"agentId"`
	Name              string `json:"name"`
	Count             int    `json:"count"`
	ViolationCount    int    `json:"violations"`
	TotalViolationSec int64  `json:"totalViolationSeconds"`
}

// BreakTypeStats aggregates the sessions of one break type.
type BreakTypeStats struct {
	BreakTypeID      string `json:"breakTypeId"`
	Name             string `json:"name"`
	Count            int    `json:"count"`
	TotalDurationMin int64  `json:"totalDurationMinutes"`

	totalSec int64
}

// GroupByAgent keys statistics by agent ID. Unresolved agents are named
// domain.UnknownName.
func GroupByAgent(sessions []*domain.SessionDetail) map[string]*AgentStats {
	groups := make(map[string]*AgentStats)
	for _, s := range sessions {
		if s == nil {
			continue
		}
		g, ok := groups[s.UserID]
		if !ok {
			g = &AgentStats{AgentID: s.UserID, Name: domain.NameOrUnknown(s.AgentName)}
			groups[s.UserID] = g
		}
		g.Count++
		if s.ViolationSec > 0 {
			g.ViolationCount++
			g.TotalViolationSec += s.ViolationSec
		}
	}
	return groups
}

// GroupByBreakType keys statistics by break type ID. Durations of ended
// sessions are summed in seconds and floored to minutes once per group.
func GroupByBreakType(sessions []*domain.SessionDetail) map[string]*BreakTypeStats {
	groups := make(map[string]*BreakTypeStats)
	for _, s := range sessions {
		if s == nil {
			continue
		}
		g, ok := groups[s.BreakTypeID]
		if !ok {
			g = &BreakTypeStats{BreakTypeID: s.BreakTypeID, Name: domain.NameOrUnknown(s.BreakTypeName)}
			groups[s.BreakTypeID] = g
		}
		g.Count++
		g.totalSec += s.DurationSeconds()
		g.TotalDurationMin = g.totalSec / 60
	}
	return groups
}

// AgentStatsList flattens groups ordered by name, then ID.
func AgentStatsList(groups map[string]*AgentStats) []AgentStats {
	out := make([]AgentStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return byNameThenID(out[i].Name, out[i].AgentID, out[j].Name, out[j].AgentID)
	})
	return out
}

// BreakTypeStatsList flattens groups ordered by name, then ID.
func BreakTypeStatsList(groups map[string]*BreakTypeStats) []BreakTypeStats {
	out := make([]BreakTypeStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return byNameThenID(out[i].Name, out[i].BreakTypeID, out[j].Name, out[j].BreakTypeID)
	})
	return out
}

func byNameThenID(nameA, idA, nameB, idB string) bool {
	la, lb := strings.ToLower(nameA), strings.ToLower(nameB)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
