package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dori/punch/internal/auth"
	"github.com/dori/punch/internal/tracker"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return tracker.Invalid("", "invalid request body: %v", err)
	}
	return nil
}

// classify maps a domain error to a status code and a caller-safe message.
// Foreign entities are reported exactly like missing ones.
func classify(err error) (int, string) {
	var verr *tracker.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case tracker.IsHidden(err):
		return http.StatusNotFound, "not found or unauthorized"
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)

	ev := s.log.Debug()
	if status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	writeJSON(w, status, errorBody{Error: msg})
}
