package propertyhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ScoreProperty POST /api/v1/properties/{id}/score.
func (s *serverAPI) ScoreProperty(w http.ResponseWriter, r *http.Request) {
	const op = "propertyhttp.ScoreProperty"

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid property id format", err)
		return
	}

	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	score, err := s.svc.ScoreProperty(r.Context(), id, req.Preferences)
	if err != nil {
		s.respondServiceError(w, op, err)
		return
	}

	respondJSON(w, http.StatusOK, score)
}
