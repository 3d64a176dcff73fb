package httpapi

import (
	"net/http"

	"github.com/alexanderramin/breakdesk/internal/app"
)

type userView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type breakTypeView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationSec int64  `json:"duration"`
}

func (s *Server) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	var req app.StartBreakRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.breaks.StartBreak(r.Context(), req.AgentID, req.BreakTypeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.NewSessionView(d, s.now()))
}

func (s *Server) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	var req app.EndBreakRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.breaks.EndBreak(r.Context(), req.AgentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewSessionView(d, s.now()))
}

func (s *Server) handleCurrentBreak(w http.ResponseWriter, r *http.Request) {
	d, err := s.breaks.Current(r.Context(), r.URL.Query().Get("agentId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewSessionView(d, s.now()))
}

func (s *Server) handleAgentHistory(w http.ResponseWriter, r *http.Request) {
	views, err := s.history.AgentHistory(r.Context(), r.URL.Query().Get("agentId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.history.History(r.Context(), app.HistoryRequest{
		AgentID:     q.Get("agentId"),
		BreakTypeID: q.Get("breakTypeId"),
		Status:      q.Get("status"),
		AgentName:   q.Get("agentName"),
		Range:       q.Get("range"),
		Start:       q.Get("start"),
		End:         q.Get("end"),
		Sort:        q.Get("sort"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.history.Report(r.Context(), app.ReportRequest{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		UserID:    q.Get("userId"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBreakTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListBreakTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]breakTypeView, 0, len(types))
	for _, b := range types {
		out = append(out, breakTypeView{ID: b.ID, Name: b.Name, DurationSec: b.DurationSec})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.catalog.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{ID: u.ID, Name: u.Name, Role: string(u.Role)})
	}
	writeJSON(w, http.StatusOK, out)
}
