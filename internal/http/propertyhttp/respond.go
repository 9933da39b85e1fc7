package propertyhttp

import (
	"errors"
	"log/slog"
	"net/http"

	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/repository"
	"rentnova/internal/services/quickmatch"

	"github.com/goccy/go-json"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil && status < http.StatusInternalServerError {
		resp.Details = err.Error()
	}
	respondJSON(w, status, resp)
}

// respondServiceError переводит ошибку сервиса в HTTP-статус.
func (s *serverAPI) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPreferences):
		respondError(w, http.StatusBadRequest, "invalid preferences", err)
	case errors.Is(err, repository.ErrPropertyNotFound):
		respondError(w, http.StatusNotFound, "property not found", nil)
	case errors.Is(err, quickmatch.ErrUnknownPreset):
		respondError(w, http.StatusBadRequest, "unknown preset", err)
	default:
		s.log.Error("request failed", slog.String("op", op), sl.Err(err))
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
