package propertyhttp

import (
	"net/http"

	"rentnova/internal/domain"
	"rentnova/internal/services/quickmatch"
)

// QuickMatches POST /api/v1/quick-matches.
// Пресет имеет приоритет над явными критериями.
func (s *serverAPI) QuickMatches(w http.ResponseWriter, r *http.Request) {
	const op = "propertyhttp.QuickMatches"

	var req quickMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var criteria domain.QuickMatchCriteria
	switch {
	case req.Preset != "":
		c, err := quickmatch.FromPreset(req.Preset)
		if err != nil {
			s.respondServiceError(w, op, err)
			return
		}
		criteria = c
	case req.Criteria != nil:
		if err := s.validate.Struct(req.Criteria); err != nil {
			respondError(w, http.StatusBadRequest, "invalid criteria", err)
			return
		}
		criteria = *req.Criteria
	}

	props, err := s.svc.QuickMatches(r.Context(), criteria)
	if err != nil {
		s.respondServiceError(w, op, err)
		return
	}

	respondJSON(w, http.StatusOK, propertiesResponse{Properties: props, Total: len(props)})
}

// Presets GET /api/v1/presets.
func (s *serverAPI) Presets(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, domain.QuickMatchPresets())
}
