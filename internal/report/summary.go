package report

import "github.com/alexanderramin/breakdesk/internal/domain"

// Summary holds the headline statistics of a set of sessions.
// Minute values are floored from summed seconds.
type Summary struct {
	TotalCount        int   `json:"totalSessions"`
	EndedCount        int   `json:"completedSessions"`
	OngoingCount      int   `json:"ongoingSessions"`
	TotalElapsedMin   int64 `json:"totalDurationMinutes"`
	ViolationCount    int   `json:"violationCount"`
	TotalViolationMin int64 `json:"totalViolationMinutes"`
	AverageMin        int64 `json:"averageDurationMinutes"`
}

// Summarize computes headline statistics. Elapsed time is summed over
// ended sessions only. The average is total elapsed minutes divided by
// the ended count, or zero when nothing has ended.
func Summarize(sessions []*domain.SessionDetail) Summary {
	var sum Summary
	var elapsedSec, violationSec int64
	for _, s := range sessions {
		if s == nil {
			continue
		}
		sum.TotalCount++
		switch s.Status {
		case domain.SessionEnded:
			sum.EndedCount++
			elapsedSec += s.DurationSeconds()
		case domain.SessionOngoing:
			sum.OngoingCount++
		}
		if s.ViolationSec > 0 {
			sum.ViolationCount++
			violationSec += s.ViolationSec
		}
	}
	sum.TotalElapsedMin = elapsedSec / 60
	sum.TotalViolationMin = violationSec / 60
	if sum.EndedCount > 0 {
		sum.AverageMin = sum.TotalElapsedMin / int64(sum.EndedCount)
	}
	return sum
}
