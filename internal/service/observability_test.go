package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/alexanderramin/breakdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestBreakService_ReportsUseCases(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(ctx, testutil.NewTestUser("A", testutil.WithUserID("7"))))
	require.NoError(t, repository.NewSQLiteBreakTypeRepo(database).Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))

	obs := &recordingObserver{}
	clock := testutil.NewFakeClock(t0)
	svc := NewBreakService(repository.NewSQLiteSessionRepo(database), testutil.NewTestUoW(database),
		WithClock(clock.Now), WithObserver(obs))

	_, err := svc.StartBreak(ctx, "7", "1")
	require.NoError(t, err)
	_, err = svc.StartBreak(ctx, "7", "1")
	require.Error(t, err)
	clock.Advance(1000 * time.Second)
	_, err = svc.EndBreak(ctx, "7")
	require.NoError(t, err)

	require.Len(t, obs.events, 3)
	assert.Equal(t, "start-break", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.NotEmpty(t, obs.events[0].Fields["session_id"])
	assert.False(t, obs.events[1].Success)
	assert.Error(t, obs.events[1].Err)
	assert.Equal(t, "end-break", obs.events[2].Name)
	assert.Equal(t, int64(100), obs.events[2].Fields["violation_sec"])
}

func TestSlogUseCaseObserver_LevelsByKind(t *testing.T) {
	var buf bytes.Buffer
	obs := NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "start-break", Success: true, Fields: map[string]any{"agent_id": "7"}})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "use_case=start-break")
	assert.Contains(t, buf.String(), "agent_id=7")

	buf.Reset()
	_, err := NewBreakService(nil, nil).EndBreak(ctx, "")
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "end-break", Err: err})
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "end-break", Err: assert.AnError})
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestNewSlogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
