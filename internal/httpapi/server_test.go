package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/alexanderramin/breakdesk/internal/service"
	"github.com/alexanderramin/breakdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type apiFixture struct {
	server *Server
	srv    *httptest.Server
	clock  *testutil.FakeClock
	logBuf *bytes.Buffer
}

// newAPI serves a database seeded with agent "7", agent "8" and break
// type "1" (900s).
func newAPI(t *testing.T) apiFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	users := repository.NewSQLiteUserRepo(database)
	types := repository.NewSQLiteBreakTypeRepo(database)
	require.NoError(t, users.Create(ctx, testutil.NewTestUser("Agent Seven", testutil.WithUserID("7"))))
	require.NoError(t, users.Create(ctx, testutil.NewTestUser("Agent Eight", testutil.WithUserID("8"))))
	require.NoError(t, types.Create(ctx, testutil.NewTestBreakType("Coffee", 900, testutil.WithBreakTypeID("1"))))

	clock := testutil.NewFakeClock(t0)
	sessions := repository.NewSQLiteSessionRepo(database)
	uow := testutil.NewTestUoW(database)
	var logBuf bytes.Buffer

	s := NewServer(
		service.NewBreakService(sessions, uow, service.WithClock(clock.Now)),
		service.NewHistoryService(sessions, service.WithClock(clock.Now)),
		service.NewCatalogService(users, types, uow),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
		WithRequestTimeout(time.Second),
		WithClock(clock.Now),
		WithDB(database),
	)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return apiFixture{server: s, srv: srv, clock: clock, logBuf: &logBuf}
}

func (f apiFixture) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f apiFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPI_StartThenEnd_WithViolation(t *testing.T) {
	f := newAPI(t)

	resp := f.post(t, "/breaks/start", `{"agentId":"7","breakTypeId":"1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[app.SessionView](t, resp)
	assert.Equal(t, domain.SessionOngoing, started.Status)
	assert.True(t, started.ExpectedEndTime.Equal(t0.Add(900*time.Second)))
	assert.Nil(t, started.EndTime)

	f.clock.Advance(1000 * time.Second)
	resp = f.post(t, "/breaks/end", `{"agentId":"7"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ended := decode[app.SessionView](t, resp)
	assert.Equal(t, domain.SessionEnded, ended.Status)
	assert.Equal(t, int64(100), ended.ViolationSec)
	assert.Equal(t, int64(1000), ended.ElapsedSec)
}

func TestAPI_ErrorMapping(t *testing.T) {
	f := newAPI(t)

	require.Equal(t, http.StatusCreated, f.post(t, "/breaks/start", `{"agentId":"7","breakTypeId":"1"}`).StatusCode)

	tests := []struct {
		name   string
		resp   func() *http.Response
		status int
		kind   domain.ErrorKind
	}{
		{"second start conflicts", func() *http.Response {
			return f.post(t, "/breaks/start", `{"agentId":"7","breakTypeId":"1"}`)
		}, http.StatusConflict, domain.KindConflict},
		{"end without break", func() *http.Response {
			return f.post(t, "/breaks/end", `{"agentId":"8"}`)
		}, http.StatusNotFound, domain.KindNotFound},
		{"unknown break type", func() *http.Response {
			return f.post(t, "/breaks/start", `{"agentId":"8","breakTypeId":"99"}`)
		}, http.StatusUnprocessableEntity, domain.KindValidation},
		{"malformed body", func() *http.Response {
			return f.post(t, "/breaks/start", `{"agentId":`)
		}, http.StatusUnprocessableEntity, domain.KindValidation},
		{"bad sort", func() *http.Response {
			return f.get(t, "/breaks/history/all?sort=random")
		}, http.StatusUnprocessableEntity, domain.KindValidation},
		{"no current break", func() *http.Response {
			return f.get(t, "/breaks/current?agentId=8")
		}, http.StatusNotFound, domain.KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := tc.resp()
			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tc.kind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestAPI_CurrentBreak(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.post(t, "/breaks/start", `{"agentId":"7","breakTypeId":"1"}`).StatusCode)

	f.clock.Advance(10 * time.Minute)
	resp := f.get(t, "/breaks/current?agentId=7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cur := decode[app.SessionView](t, resp)
	assert.Equal(t, int64(600), cur.ElapsedSec)
	assert.Equal(t, int64(300), cur.RemainingSec)
	assert.Equal(t, "Coffee", cur.BreakTypeName)
}

func TestAPI_HistoryAndReport(t *testing.T) {
	f := newAPI(t)

	require.Equal(t, http.StatusCreated, f.post(t, "/breaks/start", `{"agentId":"7","breakTypeId":"1"}`).StatusCode)
	f.clock.Advance(1200 * time.Second)
	require.Equal(t, http.StatusOK, f.post(t, "/breaks/end", `{"agentId":"7"}`).StatusCode)
	require.Equal(t, http.StatusCreated, f.post(t, "/breaks/start", `{"agentId":"8","breakTypeId":"1"}`).StatusCode)

	own := decode[[]app.SessionView](t, f.get(t, "/breaks/history?agentId=7"))
	require.Len(t, own, 1)
	assert.Equal(t, int64(300), own[0].ViolationSec)

	all := decode[app.HistoryResponse](t, f.get(t, "/breaks/history/all?sort=violations"))
	require.Len(t, all.Sessions, 2)
	assert.Equal(t, "7", all.Sessions[0].AgentID)
	assert.Equal(t, 1, all.Summary.OngoingCount)
	assert.Equal(t, int64(20), all.Summary.TotalElapsedMin)
	assert.Len(t, all.ByAgent, 2)

	ongoing := decode[app.HistoryResponse](t, f.get(t, "/breaks/history/all?status=ONGOING"))
	require.Len(t, ongoing.Sessions, 1)
	assert.Equal(t, "8", ongoing.Sessions[0].AgentID)

	day := t0.Format(app.DateLayout)
	rep := decode[app.ReportResponse](t, f.get(t, "/breaks/reports?startDate="+day+"&endDate="+day+"&userId=7"))
	require.Len(t, rep.Sessions, 1)
	assert.Equal(t, 1, rep.Summary.ViolationCount)
	require.NotNil(t, rep.Start)
	assert.True(t, rep.Start.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestAPI_Catalog(t *testing.T) {
	f := newAPI(t)

	users := decode[[]userView](t, f.get(t, "/users"))
	require.Len(t, users, 2)
	assert.Equal(t, "Agent Eight", users[0].Name)

	types := decode[[]breakTypeView](t, f.get(t, "/breaks/types"))
	require.Len(t, types, 1)
	assert.Equal(t, int64(900), types[0].DurationSec)
}

func TestAPI_HealthAndRequestLog(t *testing.T) {
	f := newAPI(t)

	// Served in-process so the log line is written before we read it.
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Contains(t, f.logBuf.String(), "msg=http_request")
	assert.Contains(t, f.logBuf.String(), "path=/healthz")
	assert.Contains(t, f.logBuf.String(), "status=200")
}

func TestWriteError_BusyDatabaseIsRetryable(t *testing.T) {
	f := newAPI(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/breaks/start", nil)

	busy := fmt.Errorf("starting break: %w", errors.New("database is locked (5) (SQLITE_BUSY)"))
	f.server.writeError(rec, req, busy)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.KindInternal, body.Error.Kind)
	assert.NotContains(t, body.Error.Message, "SQLITE")
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	f := newAPI(t)
	resp := f.get(t, "/breaks/start")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
