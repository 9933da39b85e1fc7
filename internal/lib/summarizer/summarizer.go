// Package summarizer генерирует короткое текстовое резюме подборки через LLM.
package summarizer

import (
	"context"
	"errors"
	"log/slog"

	"rentnova/internal/config"
	"rentnova/internal/domain"
)

var (
	// ErrDisabled LLM выключен конфигурацией.
	ErrDisabled = errors.New("summarizer is disabled")
	// ErrEmptySummary модель вернула пустой текст.
	ErrEmptySummary = errors.New("empty summary")
	// ErrRateLimited запрос отклонён локальным ограничителем темпа.
	ErrRateLimited = errors.New("summarizer rate limit exceeded")
)

// Entry сокращённое представление рекомендации, которое уходит в модель.
type Entry struct {
	Title           string   `json:"title"`
	City            string   `json:"city"`
	MatchPercentage int      `json:"match_percentage"`
	Reasons         []string `json:"reasons"`
}

// Summarizer пишет резюме по лучшим рекомендациям.
type Summarizer interface {
	Summarize(ctx context.Context, entries []Entry, prefs domain.UserPreferences) (string, error)
	// IsEnabled проверяет, включен ли сервис.
	IsEnabled() bool
}

// NewFromConfig собирает клиента с предохранителем и ограничителем темпа.
// При выключенном LLM возвращается заглушка.
func NewFromConfig(cfg config.LLMConfig, log *slog.Logger) Summarizer {
	if !cfg.Enabled {
		return &noopClient{log: log}
	}
	return NewGuard(NewClient(cfg, log), GuardConfig{
		RatePerSecond:   cfg.RatePerSecond,
		Burst:           cfg.Burst,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	}, log)
}

// EntriesFrom переводит рекомендации в записи для модели.
func EntriesFrom(recs []domain.Recommendation) []Entry {
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{
			Title:           r.Property.Title,
			City:            r.Property.City,
			MatchPercentage: r.Score.MatchPercentage,
			Reasons:         r.Score.Reasons,
		})
	}
	return entries
}

// noopClient заглушка для случая, когда LLM отключен.
type noopClient struct {
	log *slog.Logger
}

func (c *noopClient) Summarize(_ context.Context, _ []Entry, _ domain.UserPreferences) (string, error) {
	c.log.Debug("LLM service is disabled")
	return "", ErrDisabled
}

func (c *noopClient) IsEnabled() bool {
	return false
}
