// Package cache хранит результаты рекомендаций с ограниченным временем жизни.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"
	"sync"
	"time"

	"rentnova/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Store кэш результатов рекомендаций.
// Ошибки бэкенда не возвращаются: для вызывающего любая проблема выглядит как промах.
// Хранимое значение не разделяет память ни с переданным в Set, ни с возвращённым из Get.
type Store interface {
	Get(ctx context.Context, key string) (domain.CachedRecommendations, bool)
	Set(ctx context.Context, key string, value domain.CachedRecommendations, ttl time.Duration)
}

type entry struct {
	value    domain.CachedRecommendations
	storedAt time.Time
	ttl      time.Duration
}

// Memory потокобезопасный кэш в памяти процесса.
// Просроченные записи удаляются только при чтении, фоновой очистки и ограничения размера нет.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option настройка Memory.
type Option func(*Memory)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory создаёт пустой кэш в памяти.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get возвращает значение, если запись есть и не просрочена.
// Просроченная запись удаляется.
func (m *Memory) Get(_ context.Context, key string) (domain.CachedRecommendations, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return domain.CachedRecommendations{}, false
	}

	if m.now().Sub(e.storedAt) > e.ttl {
		m.mu.Lock()
		// Запись могли перезаписать между RUnlock и Lock.
		if cur, ok := m.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return domain.CachedRecommendations{}, false
	}

	return e.value.Clone(), true
}

// Set сохраняет значение с заданным временем жизни, перезаписывая старое.
func (m *Memory) Set(_ context.Context, key string, value domain.CachedRecommendations, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		value:    value.Clone(),
		storedAt: m.now(),
		ttl:      ttl,
	}
}

// Len количество записей, включая ещё не вычищенные просроченные.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

const (
	recommendationsPrefix = "recommendations"
	idsPrefix             = "recommendations-ids"
)

// RecommendationKey строит ключ кэша из предпочтений и размера набора кандидатов.
// Структурно одинаковые предпочтения дают одинаковый ключ.
func RecommendationKey(prefs domain.UserPreferences, candidateCount int) string {
	payload := struct {
		Preferences    domain.UserPreferences `json:"preferences"`
		CandidateCount int                    `json:"candidate_count"`
	}{prefs, candidateCount}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%s:%+v:%d", recommendationsPrefix, prefs, candidateCount)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", recommendationsPrefix, hash[:16])
}

// RecommendationKeyForIDs ключ для запросов, ограниченных набором объектов.
// Порядок ids не влияет на ключ.
func RecommendationKeyForIDs(prefs domain.UserPreferences, candidateCount int, ids []uuid.UUID) string {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, id.String())
	}
	slices.Sort(sorted)

	payload := struct {
		Preferences    domain.UserPreferences `json:"preferences"`
		CandidateCount int                    `json:"candidate_count"`
		PropertyIDs    []string               `json:"property_ids"`
	}{prefs, candidateCount, sorted}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%s:%+v:%d:%v", idsPrefix, prefs, candidateCount, sorted)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", idsPrefix, hash[:16])
}
