// Package relevance ранжирует объекты по совпадению адреса со свободной строкой поиска.
package relevance

import (
	"slices"
	"strings"
	"unicode/utf8"

	"rentnova/internal/domain"
)

// Бонусы складываются, ранний выход не предусмотрен.
const (
	exactAddress = 100
	exactCity    = 90
	exactState   = 80

	containsAddress = 70
	prefixAddress   = 60
	prefixCity      = 50
	prefixState     = 40
	containsCity    = 30
	containsState   = 20
	containsCountry = 10

	tokenAddress   = 15
	tokenCity      = 10
	tokenState     = 5
	minTokenLength = 3
)

// Score вычисляет неограниченный сверху балл релевантности объекта строке поиска.
// Пустая строка входит в любое поле, поэтому для неё начисляются все бонусы за вхождение.
func Score(p domain.Property, searchTerm string) int {
	term := domain.NormalizeTerm(searchTerm)
	address := domain.NormalizeTerm(p.Address)
	city := domain.NormalizeTerm(p.City)
	state := domain.NormalizeTerm(p.State)
	country := domain.NormalizeTerm(p.Country)

	score := 0

	if address == term {
		score += exactAddress
	}
	if city == term {
		score += exactCity
	}
	if state == term {
		score += exactState
	}

	if strings.Contains(address, term) {
		score += containsAddress
	}
	if strings.HasPrefix(address, term) {
		score += prefixAddress
	}
	if strings.HasPrefix(city, term) {
		score += prefixCity
	}
	if strings.HasPrefix(state, term) {
		score += prefixState
	}

	if strings.Contains(city, term) {
		score += containsCity
	}
	if strings.Contains(state, term) {
		score += containsState
	}
	if strings.Contains(country, term) {
		score += containsCountry
	}

	for _, token := range strings.Fields(term) {
		if utf8.RuneCountInString(token) < minTokenLength {
			continue
		}
		if strings.Contains(address, token) {
			score += tokenAddress
		}
		if strings.Contains(city, token) {
			score += tokenCity
		}
		if strings.Contains(state, token) {
			score += tokenState
		}
	}

	return score
}

// Scored объект с баллом релевантности.
type Scored struct {
	Property domain.Property `json:"property"`
	Score    int             `json:"score"`
}

// Rank сортирует объекты по убыванию релевантности, сохраняя исходный порядок при равенстве.
// Для пустой строки поиска порядок не меняется.
func Rank(properties []domain.Property, searchTerm string) []Scored {
	term := domain.NormalizeTerm(searchTerm)

	out := make([]Scored, len(properties))
	for i, p := range properties {
		out[i] = Scored{Property: p}
		if term != "" {
			out[i].Score = Score(p, term)
		}
	}

	if term == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b Scored) int {
		return b.Score - a.Score
	})
	return out
}

// Search возвращает не более limit объектов с ненулевой релевантностью.
// Пустая строка поиска возвращает объекты в исходном порядке.
func Search(properties []domain.Property, searchTerm string, limit int) []Scored {
	ranked := Rank(properties, searchTerm)
	if domain.NormalizeTerm(searchTerm) != "" {
		ranked = slices.DeleteFunc(ranked, func(s Scored) bool { return s.Score <= 0 })
	}

	limit = domain.NormalizePageSize(limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
