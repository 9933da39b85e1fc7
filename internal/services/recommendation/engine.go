// Package recommendation собирает ранжированную подборку объектов под предпочтения арендатора.
package recommendation

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"rentnova/internal/domain"
	"rentnova/internal/lib/cache"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/lib/metrics"
	"rentnova/internal/lib/summarizer"
	"rentnova/internal/services/quickmatch"
	"rentnova/internal/services/scoring"

	"github.com/google/uuid"
)

const (
	// MinScore объекты с баллом не выше порога в выдачу не попадают.
	MinScore = 20.0
	// MaxRecommendations размер выдачи после сортировки.
	MaxRecommendations = 10
	// SummaryEntries сколько лучших объектов уходит в суммаризатор.
	SummaryEntries = 3

	DefaultTTL            = 60 * time.Minute
	DefaultSummaryTimeout = 10 * time.Second
)

type Engine struct {
	log            *slog.Logger
	cache          cache.Store
	summarizer     summarizer.Summarizer
	metrics        *metrics.Recorder
	ttl            time.Duration
	summaryTimeout time.Duration
}

type Option func(*Engine)

func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

func WithSummaryTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.summaryTimeout = d
		}
	}
}

func NewEngine(log *slog.Logger, store cache.Store, sum summarizer.Summarizer, rec *metrics.Recorder, opts ...Option) *Engine {
	e := &Engine{
		log:            log,
		cache:          store,
		summarizer:     sum,
		metrics:        rec,
		ttl:            DefaultTTL,
		summaryTimeout: DefaultSummaryTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetRecommendations ранжирует кандидатов и возвращает не больше MaxRecommendations
// объектов с баллом выше MinScore вместе с резюме. Повторный запрос с теми же
// предпочтениями и тем же числом кандидатов в пределах TTL отдаётся из кэша.
// Ошибки суммаризатора и кэша наружу не выходят.
func (e *Engine) GetRecommendations(ctx context.Context, properties []domain.Property, prefs domain.UserPreferences, useAI bool) domain.RecommendationResult {
	const op = "recommendation.Engine.GetRecommendations"

	return e.recommend(ctx, op, cache.RecommendationKey(prefs, len(properties)), properties, prefs, useAI)
}

// GetRecommendationsAmong то же, что GetRecommendations, для кандидатов, отобранных по ids.
// Записи кэша лежат в отдельном пространстве ключей и различаются набором ids.
func (e *Engine) GetRecommendationsAmong(ctx context.Context, ids []uuid.UUID, properties []domain.Property, prefs domain.UserPreferences, useAI bool) domain.RecommendationResult {
	const op = "recommendation.Engine.GetRecommendationsAmong"

	if len(ids) == 0 {
		return e.GetRecommendations(ctx, properties, prefs, useAI)
	}
	return e.recommend(ctx, op, cache.RecommendationKeyForIDs(prefs, len(properties), ids), properties, prefs, useAI)
}

func (e *Engine) recommend(ctx context.Context, op, key string, properties []domain.Property, prefs domain.UserPreferences, useAI bool) domain.RecommendationResult {
	log := e.log.With(slog.String("op", op), slog.String("cache_key", key))

	if cached, ok := e.cache.Get(ctx, key); ok {
		e.metrics.RecordCacheLookup(true)
		log.Debug("recommendations served from cache")
		return domain.RecommendationResult{
			Recommendations: cached.Recommendations,
			Summary:         cached.Summary,
			Cached:          true,
		}
	}
	e.metrics.RecordCacheLookup(false)

	recs := Rank(properties, prefs)
	summary := e.summarize(ctx, log, recs, prefs, useAI)

	e.cache.Set(ctx, key, domain.CachedRecommendations{
		Recommendations: recs,
		Summary:         summary,
	}, e.ttl)
	e.metrics.RecordResultSize(len(recs))

	log.Info("recommendations computed",
		slog.Int("candidates", len(properties)),
		slog.Int("recommendations", len(recs)),
	)

	return domain.RecommendationResult{
		Recommendations: recs,
		Summary:         summary,
		Cached:          false,
	}
}

// ScoreProperty оценивает один объект без кэша и фильтрации.
func (e *Engine) ScoreProperty(p domain.Property, prefs domain.UserPreferences) domain.RecommendationScore {
	return scoring.Score(p, prefs)
}

// QuickMatches быстрая выдача по частичным критериям.
func (e *Engine) QuickMatches(properties []domain.Property, criteria domain.QuickMatchCriteria) []domain.Property {
	return quickmatch.Filter(properties, criteria)
}

// Rank оценивает кандидатов, отбрасывает слабые, сортирует по убыванию балла
// и обрезает выдачу. Объекты с равным баллом сохраняют исходный порядок.
func Rank(properties []domain.Property, prefs domain.UserPreferences) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(properties))
	for _, p := range properties {
		score := scoring.Score(p, prefs)
		if score.Score <= MinScore {
			continue
		}
		recs = append(recs, domain.Recommendation{Property: p, Score: score})
	}

	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		return cmp.Compare(b.Score.Score, a.Score.Score)
	})

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func (e *Engine) summarize(ctx context.Context, log *slog.Logger, recs []domain.Recommendation, prefs domain.UserPreferences, useAI bool) string {
	if !useAI || len(recs) == 0 || e.summarizer == nil || !e.summarizer.IsEnabled() {
		e.metrics.RecordFallback()
		return TemplateSummary(recs)
	}

	ctx, cancel := context.WithTimeout(ctx, e.summaryTimeout)
	defer cancel()

	top := recs[:min(SummaryEntries, len(recs))]

	timer := e.metrics.StartTimer()
	text, err := e.summarizer.Summarize(ctx, summarizer.EntriesFrom(top), prefs)
	if err == nil && strings.TrimSpace(text) == "" {
		err = summarizer.ErrEmptySummary
	}
	timer.Stop(err)

	if err != nil {
		log.Warn("summarizer failed, using template summary", sl.Err(err))
		e.metrics.RecordFallback()
		return TemplateSummary(recs)
	}

	return strings.TrimSpace(text)
}

// TemplateSummary детерминированное резюме подборки.
func TemplateSummary(recs []domain.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"I found %d properties that match your preferences, with an average compatibility of %d%%.",
		len(recs), averageMatch(recs),
	))

	if len(recs) > 0 {
		top := recs[0]
		sb.WriteString(fmt.Sprintf(" Top pick: %s in %s (%d%% match).",
			top.Property.Title, top.Property.City, top.Score.MatchPercentage))
	}

	return sb.String()
}

func averageMatch(recs []domain.Recommendation) int {
	if len(recs) == 0 {
		return 0
	}
	var sum int
	for _, r := range recs {
		sum += r.Score.MatchPercentage
	}
	return int(math.Round(float64(sum) / float64(len(recs))))
}
