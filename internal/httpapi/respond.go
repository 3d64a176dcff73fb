package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/domain"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to a status code. Internal errors
// are logged and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	msg := "internal error"

	switch kind {
	case domain.KindConflict:
		status, msg = http.StatusConflict, err.Error()
	case domain.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case domain.KindValidation:
		status, msg = http.StatusUnprocessableEntity, err.Error()
	default:
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status, msg = http.StatusGatewayTimeout, "request timed out"
		case db.IsBusy(err):
			// The write lock stayed held past the busy timeout; retrying is safe.
			w.Header().Set("Retry-After", "1")
			status, msg = http.StatusServiceUnavailable, "database busy, retry shortly"
		}
		s.logger.ErrorContext(r.Context(), "http_internal_error",
			"method", r.Method, "path", r.URL.Path, "error", err.Error())
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: msg}})
}

// decodeJSON reads a single JSON object. Malformed bodies are validation
// errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}
