package propertyhttp

import (
	"context"
	"log/slog"

	"rentnova/internal/domain"
	"rentnova/internal/lib/metrics"
	"rentnova/internal/services/relevance"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RecommendationService описывает бизнес-логику подбора объектов.
type RecommendationService interface {
	Recommend(ctx context.Context, prefs domain.UserPreferences, useAI bool, ids []uuid.UUID) (domain.RecommendationResult, error)
	ScoreProperty(ctx context.Context, id uuid.UUID, prefs domain.UserPreferences) (domain.RecommendationScore, error)
	QuickMatches(ctx context.Context, criteria domain.QuickMatchCriteria) ([]domain.Property, error)
	Search(ctx context.Context, term string, limit int) ([]relevance.Scored, error)
}

// StatsProvider отдаёт сводку метрик.
type StatsProvider interface {
	GetStats() metrics.Stats
}

type serverAPI struct {
	log      *slog.Logger
	svc      RecommendationService
	stats    StatsProvider
	validate *validator.Validate
}

// Register вешает обработчики API на роутер.
func Register(r chi.Router, log *slog.Logger, svc RecommendationService, stats StatsProvider) {
	s := &serverAPI{
		log:      log,
		svc:      svc,
		stats:    stats,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.Post("/properties/{id}/score", s.ScoreProperty)
		r.Get("/properties/search", s.Search)
		r.Post("/quick-matches", s.QuickMatches)
		r.Get("/presets", s.Presets)
		r.Get("/ai/stats", s.Stats)
	})
}
