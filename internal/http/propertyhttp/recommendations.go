package propertyhttp

import (
	"net/http"
)

// Recommend POST /api/v1/recommendations.
func (s *serverAPI) Recommend(w http.ResponseWriter, r *http.Request) {
	const op = "propertyhttp.Recommend"

	var req recommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	ids, err := parseIDs(req.PropertyIDs)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid property ids", err)
		return
	}

	result, err := s.svc.Recommend(r.Context(), req.Preferences, req.UseAI, ids)
	if err != nil {
		s.respondServiceError(w, op, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
