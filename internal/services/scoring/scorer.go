// Package scoring считает совместимость объекта с предпочтениями арендатора.
//
// Итоговый балл складывается из шести факторов в фиксированном порядке:
// бюджет, локация, тип, спальни, удобства и бонус за образ жизни. Первые пять
// в сумме дают не больше 100, бонус начисляется сверху, поэтому балл может
// превысить 100. MatchPercentage не обрезается.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"rentnova/internal/domain"

	"github.com/samber/lo"
)

// Веса факторов.
const (
	BudgetWeight       = 25.0
	NearBudgetWeight   = 15.0
	LocationWeight     = 20.0
	TypeWeight         = 15.0
	BedroomsWeight     = 15.0
	NearBedroomsWeight = 8.0
	AmenitiesWeight    = 15.0
	LifestyleBonus     = 10.0

	// nearBudgetFactor допуск сверх максимума бюджета.
	nearBudgetFactor  = 1.1
	familyMinBedrooms = 3
)

const (
	ReasonWithinBudget  = "Within your budget range"
	ReasonNearBudget    = "Slightly above budget but good value"
	ReasonLocation      = "In your preferred location"
	ReasonBedroomsExact = "Perfect bedroom count match"
	ReasonBedroomsClose = "Close to ideal bedroom count"
	ReasonLuxury        = "Luxury penthouse fits your lifestyle"
	ReasonMinimalist    = "Studio suits a minimalist lifestyle"
	ReasonFamily        = "Spacious enough for your family"
)

// Score вычисляет оценку совместимости. Чистая функция без ввода-вывода.
func Score(p domain.Property, prefs domain.UserPreferences) domain.RecommendationScore {
	var (
		total   float64
		reasons []string
	)

	add := func(points float64, reason string) {
		total += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	add(budgetScore(p.Price, prefs.Budget))
	add(locationScore(p, prefs.Locations))
	add(typeScore(p.PropertyType, prefs.PropertyTypes))
	add(bedroomsScore(p.BedroomCount, prefs.Bedrooms))
	add(amenitiesScore(p, prefs.AmenityPreferences))
	add(lifestyleScore(p, prefs.Lifestyle))

	if reasons == nil {
		reasons = []string{}
	}

	return domain.RecommendationScore{
		PropertyID:      p.ID,
		Score:           total,
		Reasons:         reasons,
		MatchPercentage: int(math.Round(total)),
	}
}

func budgetScore(price int64, b domain.Budget) (float64, string) {
	if b.Contains(price) {
		return BudgetWeight, ReasonWithinBudget
	}
	// Цена ниже минимума тоже попадает в эту ветку.
	if float64(price) < float64(b.Max)*nearBudgetFactor {
		return NearBudgetWeight, ReasonNearBudget
	}
	return 0, ""
}

func locationScore(p domain.Property, locations []string) (float64, string) {
	if domain.MatchesLocation(p, locations) {
		return LocationWeight, ReasonLocation
	}
	return 0, ""
}

func typeScore(t domain.PropertyType, types []string) (float64, string) {
	if lo.Contains(types, t.String()) {
		return TypeWeight, fmt.Sprintf("Matches your preferred property type: %s", t)
	}
	return 0, ""
}

func bedroomsScore(have, want int) (float64, string) {
	switch have - want {
	case 0:
		return BedroomsWeight, ReasonBedroomsExact
	case 1, -1:
		return NearBedroomsWeight, ReasonBedroomsClose
	default:
		return 0, ""
	}
}

func amenitiesScore(p domain.Property, wanted []string) (float64, string) {
	tokens := lo.Filter(lo.Map(wanted, func(s string, _ int) string {
		return domain.NormalizeTerm(s)
	}), func(s string, _ int) bool {
		return s != ""
	})
	if len(tokens) == 0 {
		return 0, ""
	}

	have := lo.Uniq(lo.Map(p.Amenities(), func(s string, _ int) string {
		return strings.ToLower(s)
	}))

	matched := lo.CountBy(tokens, func(token string) bool {
		return lo.ContainsBy(have, func(a string) bool {
			return strings.Contains(a, token)
		})
	})
	if matched == 0 {
		return 0, ""
	}

	score := math.Min(AmenitiesWeight, float64(matched)/float64(len(tokens))*AmenitiesWeight)
	return score, fmt.Sprintf("Has %d of your preferred amenities", matched)
}

func lifestyleScore(p domain.Property, lifestyle string) (float64, string) {
	switch domain.NormalizeTerm(lifestyle) {
	case domain.LifestyleLuxury:
		if p.PropertyType == domain.PropertyTypePenthouse {
			return LifestyleBonus, ReasonLuxury
		}
	case domain.LifestyleMinimalist:
		if p.PropertyType == domain.PropertyTypeStudio {
			return LifestyleBonus, ReasonMinimalist
		}
	case domain.LifestyleFamily:
		if p.BedroomCount >= familyMinBedrooms {
			return LifestyleBonus, ReasonFamily
		}
	}
	return 0, ""
}
