package quickmatch

import (
	"fmt"
	"testing"

	"rentnova/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prop(title string, price int64, t domain.PropertyType, bedrooms int, city string) domain.Property {
	return domain.Property{
		ID:           uuid.New(),
		Title:        title,
		Price:        price,
		PropertyType: t,
		BedroomCount: bedrooms,
		City:         city,
		State:        "Texas",
	}
}

func titles(ps []domain.Property) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func catalog() []domain.Property {
	return []domain.Property{
		prop("cheap studio", 900, domain.PropertyTypeStudio, 0, "Austin"),
		prop("family house", 2400, domain.PropertyTypeHouse, 4, "Dallas"),
		prop("downtown apt", 1800, domain.PropertyTypeApartment, 2, "Austin"),
		prop("penthouse", 6000, domain.PropertyTypePenthouse, 3, "Houston"),
		prop("duplex", 2100, domain.PropertyTypeDuplex, 3, "Austin"),
	}
}

func TestFilter_NoCriteriaReturnsAllInOrder(t *testing.T) {
	got := Filter(catalog(), domain.QuickMatchCriteria{})

	assert.Equal(t, titles(catalog()), titles(got))
}

func TestFilter_Budget(t *testing.T) {
	got := Filter(catalog(), domain.QuickMatchCriteria{Budget: &domain.Budget{Min: 1000, Max: 2400}})

	assert.Equal(t, []string{"family house", "downtown apt", "duplex"}, titles(got))
}

func TestFilter_CombinedCriteria(t *testing.T) {
	three := 3
	got := Filter(catalog(), domain.QuickMatchCriteria{
		PropertyTypes: []string{"house", "duplex"},
		MinBedrooms:   &three,
		Location:      "aus",
	})

	assert.Equal(t, []string{"duplex"}, titles(got))
}

func TestFilter_LocationMatchesState(t *testing.T) {
	got := Filter(catalog(), domain.QuickMatchCriteria{Location: "TEXAS"})

	assert.Len(t, got, len(catalog()))
}

func TestFilter_CapsAtMaxResults(t *testing.T) {
	many := make([]domain.Property, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, prop(fmt.Sprintf("p%02d", i), 1000, domain.PropertyTypeApartment, 1, "Austin"))
	}

	got := Filter(many, domain.QuickMatchCriteria{})

	require.Len(t, got, MaxResults)
	assert.Equal(t, "p00", got[0].Title)
	assert.Equal(t, "p19", got[MaxResults-1].Title)
}

func TestFilter_EmptyInput(t *testing.T) {
	got := Filter(nil, domain.QuickMatchCriteria{Location: "x"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFromPreset(t *testing.T) {
	c, err := FromPreset("family_home")
	require.NoError(t, err)

	got := Filter(catalog(), c)
	assert.Equal(t, []string{"family house", "duplex"}, titles(got))

	_, err = FromPreset("castle")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPresets_AllResolvable(t *testing.T) {
	for _, p := range domain.QuickMatchPresets() {
		_, err := FromPreset(p.ID)
		assert.NoError(t, err, p.ID)
	}
}
