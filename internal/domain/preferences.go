package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// Lifestyle значения, на которые реагирует бонус за образ жизни.
const (
	LifestyleLuxury     = "luxury"
	LifestyleMinimalist = "minimalist"
	LifestyleFamily     = "family"
	LifestyleModern     = "modern"
)

// WorkStyle формат работы пользователя.
type WorkStyle string

const (
	WorkStyleUnspecified WorkStyle = ""
	WorkStyleRemote      WorkStyle = "remote"
	WorkStyleOffice      WorkStyle = "office"
	WorkStyleHybrid      WorkStyle = "hybrid"
	WorkStyleStudent     WorkStyle = "student"
)

// Budget диапазон бюджета. Min <= Max проверяется только в NewUserPreferences.
type Budget struct {
	Min int64 `json:"min" validate:"gte=0,ltefield=Max"`
	Max int64 `json:"max" validate:"gte=0"`
}

// Contains проверяет попадание цены в диапазон включительно.
func (b Budget) Contains(price int64) bool {
	return price >= b.Min && price <= b.Max
}

// UserPreferences структурированные предпочтения арендатора.
type UserPreferences struct {
	Budget             Budget    `json:"budget"`
	Locations          []string  `json:"locations,omitempty"`
	PropertyTypes      []string  `json:"property_types,omitempty"`
	Bedrooms           int       `json:"bedrooms" validate:"gte=0"`
	Lifestyle          string    `json:"lifestyle,omitempty"`
	WorkStyle          WorkStyle `json:"work_style,omitempty" validate:"omitempty,oneof=remote office hybrid student"`
	FamilySize         int       `json:"family_size" validate:"gte=0"`
	PetOwner           bool      `json:"pet_owner"`
	CommutePriority    bool      `json:"commute_priority"`
	AmenityPreferences []string  `json:"amenity_preferences,omitempty"`
	MoveInTimeframe    string    `json:"move_in_timeframe,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// NewUserPreferences проверяет предпочтения и возвращает их без изменений.
// Нарушение инварианта бюджета возвращается как ErrInvalidPreferences.
func NewUserPreferences(p UserPreferences) (UserPreferences, error) {
	if err := getValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return UserPreferences{}, fmt.Errorf("%w: %s", ErrInvalidPreferences, describe(verrs))
		}
		return UserPreferences{}, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return p, nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "ltefield":
			parts = append(parts, fmt.Sprintf("%s must not exceed %s", fe.Namespace(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}
