package propertyhttp

import (
	"net/http"
	"strconv"
)

// Search GET /api/v1/properties/search?q=&limit=.
func (s *serverAPI) Search(w http.ResponseWriter, r *http.Request) {
	const op = "propertyhttp.Search"

	q := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = parsed
	}

	scored, err := s.svc.Search(r.Context(), q, limit)
	if err != nil {
		s.respondServiceError(w, op, err)
		return
	}

	respondJSON(w, http.StatusOK, searchResponse{Query: q, Results: searchHitsFromScored(scored)})
}

// Stats GET /api/v1/ai/stats.
func (s *serverAPI) Stats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.stats.GetStats())
}
