package domain

// QuickMatchCriteria частичные предпочтения для быстрой выдачи.
// Любое поле может быть не задано, тогда соответствующий предикат не применяется.
type QuickMatchCriteria struct {
	Budget        *Budget  `json:"budget,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	MinBedrooms   *int     `json:"min_bedrooms,omitempty" validate:"omitempty,gte=0"`
	Location      string   `json:"location,omitempty"`
}

// QuickMatchPreset пресет быстрой выдачи.
type QuickMatchPreset struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Criteria    QuickMatchCriteria `json:"criteria"`
}

// QuickMatchPresets возвращает предустановленные наборы критериев.
func QuickMatchPresets() []QuickMatchPreset {
	two, three := 2, 3
	return []QuickMatchPreset{
		{ID: "budget_friendly", Name: "Budget friendly", Description: "Rentals up to 1500", Criteria: QuickMatchCriteria{Budget: &Budget{Min: 0, Max: 1500}}},
		{ID: "family_home", Name: "Family home", Description: "Houses and duplexes with 3+ bedrooms", Criteria: QuickMatchCriteria{PropertyTypes: []string{"house", "duplex"}, MinBedrooms: &three}},
		{ID: "city_studio", Name: "City studio", Description: "Studios and compact apartments", Criteria: QuickMatchCriteria{PropertyTypes: []string{"studio", "apartment"}, Budget: &Budget{Min: 0, Max: 2500}}},
		{ID: "luxury_living", Name: "Luxury living", Description: "Penthouses and condos", Criteria: QuickMatchCriteria{PropertyTypes: []string{"penthouse", "condo"}, MinBedrooms: &two}},
	}
}

// QuickMatchPresetByID возвращает пресет по ID.
func QuickMatchPresetByID(id string) *QuickMatchPreset {
	for _, p := range QuickMatchPresets() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
