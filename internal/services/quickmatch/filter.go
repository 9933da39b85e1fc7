// Package quickmatch быстрая выдача по частичным критериям без подсчёта баллов.
package quickmatch

import (
	"errors"
	"fmt"

	"rentnova/internal/domain"

	"github.com/samber/lo"
)

// MaxResults верхняя граница быстрой выдачи.
const MaxResults = 20

var ErrUnknownPreset = errors.New("unknown quick-match preset")

// Filter возвращает первые MaxResults объектов, удовлетворяющих всем заданным
// критериям, в исходном порядке. Незаданный критерий не ограничивает выдачу.
func Filter(properties []domain.Property, c domain.QuickMatchCriteria) []domain.Property {
	out := make([]domain.Property, 0, min(len(properties), MaxResults))
	for _, p := range properties {
		if !matches(p, c) {
			continue
		}
		out = append(out, p)
		if len(out) == MaxResults {
			break
		}
	}
	return out
}

func matches(p domain.Property, c domain.QuickMatchCriteria) bool {
	if c.Budget != nil && !c.Budget.Contains(p.Price) {
		return false
	}
	if len(c.PropertyTypes) > 0 && !lo.Contains(c.PropertyTypes, p.PropertyType.String()) {
		return false
	}
	if c.MinBedrooms != nil && p.BedroomCount < *c.MinBedrooms {
		return false
	}
	if c.Location != "" && !domain.MatchesLocation(p, []string{c.Location}) {
		return false
	}
	return true
}

// FromPreset возвращает критерии пресета по его ID.
func FromPreset(id string) (domain.QuickMatchCriteria, error) {
	const op = "quickmatch.FromPreset"

	preset := domain.QuickMatchPresetByID(id)
	if preset == nil {
		return domain.QuickMatchCriteria{}, fmt.Errorf("%s: %w: %q", op, ErrUnknownPreset, id)
	}
	return preset.Criteria, nil
}
