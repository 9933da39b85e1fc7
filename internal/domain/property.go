package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Property снимок объявления об аренде. Ядро рекомендаций только читает его.
type Property struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Price        int64        `json:"price"`
	PropertyType PropertyType `json:"property_type"`
	BedroomCount int          `json:"bedroom_count"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	Country      string       `json:"country"`
	// Удобства хранятся тремя независимыми списками, как их заводит арендодатель.
	BuildingAmenities []string       `json:"building_amenities,omitempty"`
	Utilities         []string       `json:"utilities,omitempty"`
	Furnishings       []string       `json:"furnishings,omitempty"`
	Status            PropertyStatus `json:"status,omitempty"`
}

// PropertyType тип жилья.
type PropertyType string

const (
	PropertyTypeUnspecified PropertyType = ""
	PropertyTypeApartment   PropertyType = "apartment"
	PropertyTypeHouse       PropertyType = "house"
	PropertyTypeStudio      PropertyType = "studio"
	PropertyTypeCondo       PropertyType = "condo"
	PropertyTypePenthouse   PropertyType = "penthouse"
	PropertyTypeDuplex      PropertyType = "duplex"
)

func (t PropertyType) String() string {
	return string(t)
}

// PropertyStatus статус объявления.
type PropertyStatus string

const (
	PropertyStatusUnspecified PropertyStatus = ""
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusRented      PropertyStatus = "rented"
	PropertyStatusArchived    PropertyStatus = "archived"
)

func (s PropertyStatus) String() string {
	return string(s)
}

// Amenities возвращает объединение всех списков удобств объекта.
// Отсутствующие списки считаются пустыми.
func (p Property) Amenities() []string {
	out := make([]string, 0, len(p.BuildingAmenities)+len(p.Utilities)+len(p.Furnishings))
	out = append(out, p.BuildingAmenities...)
	out = append(out, p.Utilities...)
	out = append(out, p.Furnishings...)
	return out
}

// PropertyFilter фильтр выборки кандидатов из источника объявлений.
type PropertyFilter struct {
	IDs          []uuid.UUID
	City         *string
	PropertyType *PropertyType
	MinPrice     *int64
	MaxPrice     *int64
	Status       *PropertyStatus
	Limit        int
}

// RecommendationScore оценка совместимости объекта с предпочтениями пользователя.
type RecommendationScore struct {
	PropertyID uuid.UUID `json:"property_id"`
	Score      float64   `json:"score"`
	// Reasons идут строго в порядке вычисления факторов.
	Reasons         []string `json:"reasons"`
	MatchPercentage int      `json:"match_percentage"`
}

// Recommendation объект вместе с его оценкой.
type Recommendation struct {
	Property Property            `json:"property"`
	Score    RecommendationScore `json:"score"`
}

// CachedRecommendations значение, которое кладётся в кэш результатов.
type CachedRecommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
}

// Clone возвращает глубокую копию: вложенные срезы не разделяются с оригиналом.
func (c CachedRecommendations) Clone() CachedRecommendations {
	out := CachedRecommendations{Summary: c.Summary}
	if c.Recommendations == nil {
		return out
	}
	out.Recommendations = make([]Recommendation, len(c.Recommendations))
	for i, r := range c.Recommendations {
		r.Property.BuildingAmenities = slices.Clone(r.Property.BuildingAmenities)
		r.Property.Utilities = slices.Clone(r.Property.Utilities)
		r.Property.Furnishings = slices.Clone(r.Property.Furnishings)
		r.Score.Reasons = slices.Clone(r.Score.Reasons)
		out.Recommendations[i] = r
	}
	return out
}

// RecommendationResult ответ движка рекомендаций.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	Cached          bool             `json:"cached"`
}
