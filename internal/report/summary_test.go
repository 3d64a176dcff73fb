package report

import (
	"testing"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize([]*domain.SessionDetail{}))
}

func TestSummarize_OnlyOngoing_NoDivideByZero(t *testing.T) {
	s := testutil.NewTestDetail(testutil.NewTestSession("a", "coffee"), "Alice", "Coffee")
	sum := Summarize([]*domain.SessionDetail{s})
	assert.Equal(t, 1, sum.TotalCount)
	assert.Equal(t, 1, sum.OngoingCount)
	assert.Equal(t, 0, sum.EndedCount)
	assert.Equal(t, int64(0), sum.AverageMin)
}

func TestSummarize_Fixture(t *testing.T) {
	f := newFixture()
	sum := Summarize(f.all)

	// Ended: 20m + 25m + 16m + 10m = 71m over 4 sessions.
	assert.Equal(t, Summary{
		TotalCount:        5,
		EndedCount:        4,
		OngoingCount:      1,
		TotalElapsedMin:   71,
		ViolationCount:    2,
		TotalViolationMin: 6,
		AverageMin:        17,
	}, sum)
}

func TestSummarize_FloorsSummedSeconds(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := testutil.NewTestDetail(testutil.NewTestSession("a", "coffee",
		testutil.WithStartTime(start), testutil.WithEnded(90*time.Second, 60)), "A", "Coffee")
	b := testutil.NewTestDetail(testutil.NewTestSession("b", "coffee",
		testutil.WithStartTime(start), testutil.WithEnded(90*time.Second, 60)), "B", "Coffee")

	sum := Summarize([]*domain.SessionDetail{a, b})
	assert.Equal(t, int64(3), sum.TotalElapsedMin, "180s floors to 3m")
	assert.Equal(t, int64(1), sum.TotalViolationMin, "60s of violation")
	assert.Equal(t, int64(1), sum.AverageMin)
}

func TestGroupByAgent(t *testing.T) {
	f := newFixture()
	groups := GroupByAgent(f.all)

	require.Len(t, groups, 4)
	alice := groups["a"]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 2, alice.Count)
	assert.Equal(t, 1, alice.ViolationCount)
	assert.Equal(t, int64(300), alice.TotalViolationSec)

	assert.Equal(t, domain.UnknownName, groups["ghost"].Name)

	list := AgentStatsList(groups)
	require.Len(t, list, 4)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, domain.UnknownName, list[3].Name)
}

func TestGroupByBreakType(t *testing.T) {
	f := newFixture()
	groups := GroupByBreakType(f.all)

	require.Len(t, groups, 3)
	coffee := groups["coffee"]
	assert.Equal(t, "Coffee", coffee.Name)
	assert.Equal(t, 3, coffee.Count)
	assert.Equal(t, int64(36), coffee.TotalDurationMin, "20m + 16m; ongoing adds nothing")

	assert.Equal(t, domain.UnknownName, groups["gone"].Name)

	list := BreakTypeStatsList(groups)
	assert.Equal(t, []string{"Coffee", "Lunch", domain.UnknownName},
		[]string{list[0].Name, list[1].Name, list[2].Name})
}

func TestGroup_NilSessionsIgnored(t *testing.T) {
	assert.Empty(t, GroupByAgent([]*domain.SessionDetail{nil}))
	assert.Empty(t, GroupByBreakType([]*domain.SessionDetail{nil}))
	assert.Equal(t, Summary{}, Summarize([]*domain.SessionDetail{nil}))
}
