package propertyhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/handlers/slogdiscard"
	"rentnova/internal/lib/metrics"
	"rentnova/internal/repository"
	"rentnova/internal/services/relevance"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	recommendFunc    func(ctx context.Context, prefs domain.UserPreferences, useAI bool, ids []uuid.UUID) (domain.RecommendationResult, error)
	scoreFunc        func(ctx context.Context, id uuid.UUID, prefs domain.UserPreferences) (domain.RecommendationScore, error)
	quickMatchesFunc func(ctx context.Context, c domain.QuickMatchCriteria) ([]domain.Property, error)
	searchFunc       func(ctx context.Context, term string, limit int) ([]relevance.Scored, error)
}

func (f *fakeService) Recommend(ctx context.Context, prefs domain.UserPreferences, useAI bool, ids []uuid.UUID) (domain.RecommendationResult, error) {
	return f.recommendFunc(ctx, prefs, useAI, ids)
}

func (f *fakeService) ScoreProperty(ctx context.Context, id uuid.UUID, prefs domain.UserPreferences) (domain.RecommendationScore, error) {
	return f.scoreFunc(ctx, id, prefs)
}

func (f *fakeService) QuickMatches(ctx context.Context, c domain.QuickMatchCriteria) ([]domain.Property, error) {
	return f.quickMatchesFunc(ctx, c)
}

func (f *fakeService) Search(ctx context.Context, term string, limit int) ([]relevance.Scored, error) {
	return f.searchFunc(ctx, term, limit)
}

type fakeStats struct{}

func (fakeStats) GetStats() metrics.Stats {
	return metrics.Stats{Fallbacks: 3}
}

func newRouter(svc RecommendationService) http.Handler {
	r := chi.NewRouter()
	Register(r, slogdiscard.NewDiscardLogger(), svc, fakeStats{})
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecommend_OK(t *testing.T) {
	id := uuid.New()
	var gotIDs []uuid.UUID
	var gotAI bool
	svc := &fakeService{
		recommendFunc: func(_ context.Context, prefs domain.UserPreferences, useAI bool, ids []uuid.UUID) (domain.RecommendationResult, error) {
			gotIDs, gotAI = ids, useAI
			assert.Equal(t, int64(2000), prefs.Budget.Max)
			return domain.RecommendationResult{
				Recommendations: []domain.Recommendation{{Property: domain.Property{ID: id, Title: "Loft"}}},
				Summary:         "I found 1 properties",
			}, nil
		},
	}

	body := `{"preferences": {"budget": {"min": 1000, "max": 2000}, "bedrooms": 2}, "use_ai": true, "property_ids": ["` + id.String() + `"]}`
	rec := do(t, newRouter(svc), http.MethodPost, "/api/v1/recommendations", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []uuid.UUID{id}, gotIDs)
	assert.True(t, gotAI)

	var resp domain.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Loft", resp.Recommendations[0].Property.Title)
	assert.False(t, resp.Cached)
}

func TestRecommend_BadRequests(t *testing.T) {
	svc := &fakeService{
		recommendFunc: func(context.Context, domain.UserPreferences, bool, []uuid.UUID) (domain.RecommendationResult, error) {
			return domain.RecommendationResult{}, errors.New("must not be called")
		},
	}
	h := newRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"preferences": `},
		{name: "unknown field", body: `{"preferences": {}, "extra": 1}`},
		{name: "budget min above max", body: `{"preferences": {"budget": {"min": 3000, "max": 1000}}}`},
		{name: "bad work style", body: `{"preferences": {"work_style": "nomad"}}`},
		{name: "bad property id", body: `{"preferences": {}, "property_ids": ["nope"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/recommendations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRecommend_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid preferences", err: domain.ErrInvalidPreferences, want: http.StatusBadRequest},
		{name: "source failure", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{
				recommendFunc: func(context.Context, domain.UserPreferences, bool, []uuid.UUID) (domain.RecommendationResult, error) {
					return domain.RecommendationResult{}, tt.err
				},
			}
			rec := do(t, newRouter(svc), http.MethodPost, "/api/v1/recommendations", `{"preferences": {}}`)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestScoreProperty(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{
		scoreFunc: func(_ context.Context, got uuid.UUID, _ domain.UserPreferences) (domain.RecommendationScore, error) {
			if got != id {
				return domain.RecommendationScore{}, repository.ErrPropertyNotFound
			}
			return domain.RecommendationScore{PropertyID: id, Score: 60, MatchPercentage: 60, Reasons: []string{"Within your budget range"}}, nil
		},
	}
	h := newRouter(svc)

	rec := do(t, h, http.MethodPost, "/api/v1/properties/"+id.String()+"/score", `{"preferences": {}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var score domain.RecommendationScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 60, score.MatchPercentage)

	rec = do(t, h, http.MethodPost, "/api/v1/properties/"+uuid.NewString()+"/score", `{"preferences": {}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/properties/not-a-uuid/score", `{"preferences": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickMatches(t *testing.T) {
	var got domain.QuickMatchCriteria
	svc := &fakeService{
		quickMatchesFunc: func(_ context.Context, c domain.QuickMatchCriteria) ([]domain.Property, error) {
			got = c
			return []domain.Property{{Title: "House"}}, nil
		},
	}
	h := newRouter(svc)

	rec := do(t, h, http.MethodPost, "/api/v1/quick-matches", `{"preset": "family_home"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"house", "duplex"}, got.PropertyTypes)

	var resp propertiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	rec = do(t, h, http.MethodPost, "/api/v1/quick-matches", `{"criteria": {"location": "austin"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "austin", got.Location)

	rec = do(t, h, http.MethodPost, "/api/v1/quick-matches", `{"preset": "castle"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/quick-matches", `{"criteria": {"min_bedrooms": -1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	var gotTerm string
	var gotLimit int
	svc := &fakeService{
		searchFunc: func(_ context.Context, term string, limit int) ([]relevance.Scored, error) {
			gotTerm, gotLimit = term, limit
			return []relevance.Scored{{Property: domain.Property{Title: "Austin loft"}, Score: 180}}, nil
		},
	}
	h := newRouter(svc)

	rec := do(t, h, http.MethodGet, "/api/v1/properties/search?q=loft&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loft", gotTerm)
	assert.Equal(t, 5, gotLimit)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 180, resp.Results[0].Relevance)

	rec = do(t, h, http.MethodGet, "/api/v1/properties/search?q=loft&limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresetsAndStats(t *testing.T) {
	h := newRouter(&fakeService{})

	rec := do(t, h, http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var presets []domain.QuickMatchPreset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presets))
	assert.Len(t, presets, len(domain.QuickMatchPresets()))

	rec = do(t, h, http.MethodGet, "/api/v1/ai/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats metrics.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.Fallbacks)
}
