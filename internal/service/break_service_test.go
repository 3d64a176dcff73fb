package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/alexanderramin/breakdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type breakFixture struct {
	svc      BreakService
	database *sql.DB
	sessions *repository.SQLiteSessionRepo
	clock    *testutil.FakeClock
	agent    *domain.User
	coffee   *domain.BreakType
}

// setupBreakService seeds agent "7" and break type "1" (900s).
func setupBreakService(t *testing.T) breakFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	agent := testutil.NewTestUser("Agent Seven", testutil.WithUserID("7"))
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(ctx, agent))
	coffee := testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, coffee))

	clock := testutil.NewFakeClock(t0)
	sessions := repository.NewSQLiteSessionRepo(database)
	svc := NewBreakService(sessions, testutil.NewTestUoW(database), WithClock(clock.Now))
	return breakFixture{svc: svc, database: database, sessions: sessions, clock: clock, agent: agent, coffee: coffee}
}

func TestStartBreak_CreatesOngoingSession(t *testing.T) {
	f := setupBreakService(t)

	got, err := f.svc.StartBreak(context.Background(), "7", "1")
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, domain.SessionOngoing, got.Status)
	assert.True(t, got.StartTime.Equal(t0))
	assert.True(t, got.ExpectedEndTime.Equal(t0.Add(900*time.Second)))
	assert.Nil(t, got.EndTime)
	assert.Equal(t, int64(0), got.ViolationSec)
	assert.Equal(t, "Agent Seven", got.AgentName)
	assert.Equal(t, "Coffee", got.BreakTypeName)
	assert.Equal(t, int64(900), got.AllottedSec)

	stored, err := f.sessions.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionOngoing, stored.Status)
}

func TestEndBreak_OverAllotment_RecordsViolation(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	f.clock.Advance(1000 * time.Second)
	got, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)

	assert.Equal(t, domain.SessionEnded, got.Status)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(t0.Add(1000*time.Second)))
	assert.Equal(t, int64(100), got.ViolationSec)

	stored, err := f.sessions.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionEnded, stored.Status)
	assert.Equal(t, int64(100), stored.ViolationSec)
}

func TestEndBreak_ReseededDurationDoesNotMoveAllotment(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	started, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	catalog := NewCatalogService(
		repository.NewSQLiteUserRepo(f.database),
		repository.NewSQLiteBreakTypeRepo(f.database),
		testutil.NewTestUoW(f.database),
	)
	_, err = catalog.Seed(ctx, nil, []*domain.BreakType{{ID: "1", Name: "Coffee", DurationSec: 600}})
	require.NoError(t, err)

	cur, err := f.svc.Current(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(900), cur.AllottedSec, "an ongoing break keeps the allotment it started with")

	f.clock.Advance(800 * time.Second)
	got, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)
	assert.True(t, got.ExpectedEndTime.Equal(started.ExpectedEndTime))
	assert.Equal(t, int64(900), got.AllottedSec)
	assert.Equal(t, int64(0), got.ViolationSec, "returned before the expected end")

	// The next break uses the new duration.
	next, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), next.AllottedSec)
	f.clock.Advance(700 * time.Second)
	ended, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(100), ended.ViolationSec)
}

func TestEndBreak_WithinAllotment_NoViolation(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	f.clock.Advance(500 * time.Second)
	got, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ViolationSec)
}

func TestEndBreak_SubSecondOverrunTruncates(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	f.clock.Advance(900*time.Second + 999*time.Millisecond)
	got, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ViolationSec)
}

func TestStartBreak_WhileOngoing_Conflict(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	first, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	_, err = f.svc.StartBreak(ctx, "7", "1")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "7", conflict.AgentID)
	assert.Equal(t, first.ID, conflict.SessionID)

	ongoing, err := f.sessions.List(ctx, repository.SessionFilter{UserID: "7", Status: domain.SessionOngoing})
	require.NoError(t, err)
	assert.Len(t, ongoing, 1)
}

func TestStartBreak_AfterEnd_Allowed(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)
	_, err = f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)

	_, err = f.svc.StartBreak(ctx, "7", "1")
	assert.NoError(t, err)
}

func TestEndBreak_NoOngoing_NotFound(t *testing.T) {
	f := setupBreakService(t)

	_, err := f.svc.EndBreak(context.Background(), "7")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestEndBreak_Twice_SecondIsNotFound(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)
	f.clock.Advance(1000 * time.Second)
	first, err := f.svc.EndBreak(ctx, "7")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.EndBreak(ctx, "7")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	stored, err := f.sessions.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndTime.Equal(*first.EndTime), "end time is never rewritten")
	assert.Equal(t, int64(100), stored.ViolationSec)
}

func TestStartBreak_Validation(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		agentID     string
		breakTypeID string
		field       string
	}{
		{"unknown agent", "99", "1", "agentId"},
		{"unknown break type", "7", "99", "breakTypeId"},
		{"missing agent", "  ", "1", "agentId"},
		{"missing break type", "7", "", "breakTypeId"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.StartBreak(ctx, tc.agentID, tc.breakTypeID)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	all, err := f.sessions.List(ctx, repository.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCurrent(t *testing.T) {
	f := setupBreakService(t)
	ctx := context.Background()

	_, err := f.svc.Current(ctx, "7")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	started, err := f.svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	cur, err := f.svc.Current(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, started.ID, cur.ID)
	assert.Equal(t, "Coffee", cur.BreakTypeName)
	assert.Equal(t, int64(900), cur.AllottedSec)
}

func TestStartBreak_RollbackOnCreateFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(ctx, testutil.NewTestUser("A", testutil.WithUserID("7"))))
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))
	sessions := repository.NewSQLiteSessionRepo(database)

	// ExecContext #1 is the session insert.
	failUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: fmt.Errorf("injected insert failure")}
	svc := NewBreakService(sessions, failUoW)

	_, err := svc.StartBreak(ctx, "7", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	all, err := sessions.List(ctx, repository.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEndBreak_RollbackOnUpdateFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(ctx, testutil.NewTestUser("A", testutil.WithUserID("7"))))
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))
	sessions := repository.NewSQLiteSessionRepo(database)

	started, err := NewBreakService(sessions, testutil.NewTestUoW(database)).StartBreak(ctx, "7", "1")
	require.NoError(t, err)

	failUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: fmt.Errorf("injected update failure")}
	_, err = NewBreakService(sessions, failUoW).EndBreak(ctx, "7")
	require.Error(t, err)

	stored, err := sessions.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionOngoing, stored.Status, "session stays ongoing after rollback")
	assert.Nil(t, stored.EndTime)
}

// TestStartBreak_ConcurrentSameAgent races start requests for one agent on
// a pooled file database: exactly one wins, the rest see a conflict.
func TestStartBreak_ConcurrentSameAgent(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(ctx, testutil.NewTestUser("Racer", testutil.WithUserID("7"))))
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))
	sessions := repository.NewSQLiteSessionRepo(database)
	svc := NewBreakService(sessions, db.NewSQLiteUnitOfWork(database))

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var okCount, conflictCount int
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.StartBreak(ctx, "7", "1")
			mu.Lock()
			defer mu.Unlock()
			var conflict *domain.ConflictError
			switch {
			case err == nil:
				okCount++
			case errors.As(err, &conflict):
				conflictCount++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	assert.Equal(t, attempts-1, conflictCount)

	ongoing, err := sessions.List(ctx, repository.SessionFilter{UserID: "7", Status: domain.SessionOngoing})
	require.NoError(t, err)
	assert.Len(t, ongoing, 1)
}

func TestStartBreak_ConcurrentDifferentAgents(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	users := repository.NewSQLiteUserRepo(database)
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))

	const agents = 6
	for i := 0; i < agents; i++ {
		require.NoError(t, users.Create(ctx, testutil.NewTestUser(fmt.Sprintf("Agent %d", i), testutil.WithUserID(fmt.Sprintf("a%d", i)))))
	}
	svc := NewBreakService(repository.NewSQLiteSessionRepo(database), db.NewSQLiteUnitOfWork(database))

	var wg sync.WaitGroup
	errs := make([]error, agents)
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.StartBreak(ctx, fmt.Sprintf("a%d", i), "1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "agent a%d", i)
	}
}
