// Package httpapi exposes the break lifecycle, history and catalog as a
// JSON API.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/breakdesk/internal/service"
)

// Server routes API requests to the services.
type Server struct {
	breaks  service.BreakService
	history service.HistoryService
	catalog service.CatalogService
	db      *sql.DB
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Server)

// WithLogger sets the request logger. Requests are not logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRequestTimeout bounds each request's context. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithClock sets the clock used for elapsed time in current-break views.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDB enables the database ping in /healthz.
func WithDB(db *sql.DB) Option {
	return func(s *Server) { s.db = db }
}

func NewServer(breaks service.BreakService, history service.HistoryService, catalog service.CatalogService, opts ...Option) *Server {
	s := &Server{
		breaks:  breaks,
		history: history,
		catalog: catalog,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in timeout and logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /breaks/start", s.handleStartBreak)
	mux.HandleFunc("POST /breaks/end", s.handleEndBreak)
	mux.HandleFunc("GET /breaks/current", s.handleCurrentBreak)
	mux.HandleFunc("GET /breaks/history", s.handleAgentHistory)
	mux.HandleFunc("GET /breaks/history/all", s.handleHistory)
	mux.HandleFunc("GET /breaks/reports", s.handleReport)
	mux.HandleFunc("GET /breaks/types", s.handleListBreakTypes)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.logRequests(s.withTimeout(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http_listen", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http_shutdown")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
