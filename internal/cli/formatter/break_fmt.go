package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/report"
)

const usageBarWidth = 20

// FormatSession renders one session as a boxed card. Ongoing sessions show
// live usage against the allotment; ended ones show the recorded result.
func FormatSession(v app.SessionView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(v.AgentName), SessionStatusPill(v.Status))
	fmt.Fprintf(&b, "%s %s (%s allotted)\n", Dim("Type:"), v.BreakTypeName, FormatSeconds(v.AllottedSec))
	fmt.Fprintf(&b, "%s %s\n", Dim("Started:"), ClockTime(v.StartTime, now))

	if v.Status == domain.SessionOngoing {
		fmt.Fprintf(&b, "%s %s\n", Dim("Due back:"), ClockTime(v.ExpectedEndTime, now))
		fmt.Fprintf(&b, "%s %s\n", Dim("Elapsed:"), FormatSeconds(v.ElapsedSec))
		if over := v.OvertimeSec(); over > 0 {
			fmt.Fprintf(&b, "%s %s\n", Dim("Over by:"), StyleRed.Render(FormatSeconds(over)))
		} else {
			fmt.Fprintf(&b, "%s %s\n", Dim("Remaining:"), FormatSeconds(v.RemainingSec))
		}
		b.WriteString("\n" + RenderUsage(v.ElapsedSec, v.AllottedSec, usageBarWidth))
	} else {
		if v.EndTime != nil {
			fmt.Fprintf(&b, "%s %s\n", Dim("Ended:"), ClockTime(*v.EndTime, now))
		}
		fmt.Fprintf(&b, "%s %s\n", Dim("Duration:"), FormatSeconds(v.ElapsedSec))
		fmt.Fprintf(&b, "%s %s", Dim("Violation:"), ViolationBadge(v.ViolationSec))
	}
	id := v.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return RenderBox("Break "+id, b.String())
}

// FormatSessionTable renders sessions one per row.
func FormatSessionTable(views []app.SessionView, now time.Time) string {
	if len(views) == 0 {
		return Dim("No breaks found.") + "\n"
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		end := Dim("--")
		if v.EndTime != nil {
			end = ClockTime(*v.EndTime, now)
		}
		rows = append(rows, []string{
			TruncID(v.ID),
			v.AgentName,
			v.BreakTypeName,
			ClockTime(v.StartTime, now),
			end,
			FormatSeconds(v.ElapsedSec),
			ViolationBadge(v.ViolationSec),
			SessionStatusPill(v.Status),
		})
	}
	return RenderTable(
		[]string{"ID", "AGENT", "TYPE", "START", "END", "ELAPSED", "OVER", "STATUS"},
		rows, 5, 6)
}

// FormatSummary renders headline statistics as a box.
func FormatSummary(s report.Summary) string {
	lines := []string{
		fmt.Sprintf("%s %d  %s %d  %s %d", Dim("Total:"), s.TotalCount, Dim("Ended:"), s.EndedCount, Dim("Ongoing:"), s.OngoingCount),
		fmt.Sprintf("%s %s  %s %s", Dim("Break time:"), FormatMinutes(s.TotalElapsedMin), Dim("Average:"), FormatMinutes(s.AverageMin)),
	}
	violations := fmt.Sprintf("%s %d", Dim("Violations:"), s.ViolationCount)
	if s.ViolationCount > 0 {
		violations = fmt.Sprintf("%s %s (%s over)", Dim("Violations:"),
			StyleRed.Render(fmt.Sprint(s.ViolationCount)), FormatMinutes(s.TotalViolationMin))
	}
	lines = append(lines, violations)
	return RenderBox("Summary", strings.Join(lines, "\n"))
}

// FormatHistory renders a full history or report view: summary, sessions
// and both groupings.
func FormatHistory(resp *app.HistoryResponse, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatSummary(resp.Summary))
	b.WriteString("\n\n")
	b.WriteString(FormatSessionTable(resp.Sessions, now))

	if len(resp.ByAgent) > 0 {
		b.WriteString("\n" + Header("By agent") + "\n")
		rows := make([][]string, 0, len(resp.ByAgent))
		for _, a := range resp.ByAgent {
			rows = append(rows, []string{a.Name, fmt.Sprint(a.Count), fmt.Sprint(a.ViolationCount), FormatSeconds(a.TotalViolationSec)})
		}
		b.WriteString(RenderTable([]string{"AGENT", "BREAKS", "VIOLATIONS", "OVER"}, rows, 1, 2, 3))
	}
	if len(resp.ByBreakType) > 0 {
		b.WriteString("\n" + Header("By break type") + "\n")
		rows := make([][]string, 0, len(resp.ByBreakType))
		for _, bt := range resp.ByBreakType {
			rows = append(rows, []string{bt.Name, fmt.Sprint(bt.Count), FormatMinutes(bt.TotalDurationMin)})
		}
		b.WriteString(RenderTable([]string{"TYPE", "BREAKS", "TOTAL"}, rows, 1, 2))
	}
	return b.String()
}

func FormatBreakTypes(types []*domain.BreakType) string {
	if len(types) == 0 {
		return Dim("No break types. Add one with 'breakdesk types add'.") + "\n"
	}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t.ID, t.Name, FormatSeconds(t.DurationSec)})
	}
	return RenderTable([]string{"ID", "NAME", "ALLOTTED"}, rows, 2)
}

func FormatUsers(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users. Add one with 'breakdesk users add'.") + "\n"
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, string(u.Role)})
	}
	return RenderTable([]string{"ID", "NAME", "ROLE"}, rows)
}
