package recommendation

import (
	"context"
	"fmt"
	"log/slog"

	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/services/relevance"

	"github.com/google/uuid"
)

// PropertySource источник объявлений: Postgres или снимок каталога.
type PropertySource interface {
	ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
}

// Service связывает источник объявлений с движком рекомендаций.
type Service struct {
	log            *slog.Logger
	source         PropertySource
	engine         *Engine
	candidateLimit int
}

func NewService(log *slog.Logger, source PropertySource, engine *Engine, candidateLimit int) *Service {
	return &Service{
		log:            log,
		source:         source,
		engine:         engine,
		candidateLimit: candidateLimit,
	}
}

// Recommend проверяет предпочтения, загружает доступные объекты и ранжирует их.
// Если ids не пусты, кандидаты ограничиваются ими.
func (s *Service) Recommend(ctx context.Context, prefs domain.UserPreferences, useAI bool, ids []uuid.UUID) (domain.RecommendationResult, error) {
	const op = "recommendation.Service.Recommend"

	prefs, err := domain.NewUserPreferences(prefs)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	candidates, err := s.candidates(ctx, ids)
	if err != nil {
		s.log.Error("failed to load candidates", slog.String("op", op), sl.Err(err))
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.engine.GetRecommendationsAmong(ctx, ids, candidates, prefs, useAI), nil
}

// ScoreProperty оценивает конкретный объект.
func (s *Service) ScoreProperty(ctx context.Context, id uuid.UUID, prefs domain.UserPreferences) (domain.RecommendationScore, error) {
	const op = "recommendation.Service.ScoreProperty"

	prefs, err := domain.NewUserPreferences(prefs)
	if err != nil {
		return domain.RecommendationScore{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.source.GetByID(ctx, id)
	if err != nil {
		return domain.RecommendationScore{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.engine.ScoreProperty(p, prefs), nil
}

// QuickMatches быстрая выдача по частичным критериям среди доступных объектов.
func (s *Service) QuickMatches(ctx context.Context, criteria domain.QuickMatchCriteria) ([]domain.Property, error) {
	const op = "recommendation.Service.QuickMatches"

	candidates, err := s.candidates(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.engine.QuickMatches(candidates, criteria), nil
}

// Search ранжирует доступные объекты по текстовому запросу.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]relevance.Scored, error) {
	const op = "recommendation.Service.Search"

	candidates, err := s.candidates(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return relevance.Search(candidates, term, limit), nil
}

func (s *Service) candidates(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	available := domain.PropertyStatusAvailable
	return s.source.ListProperties(ctx, domain.PropertyFilter{
		IDs:    ids,
		Status: &available,
		Limit:  s.candidateLimit,
	})
}
