package property_repository

import (
	"errors"
	"testing"

	"rentnova/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, params := buildListQuery(domain.PropertyFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at, property_id LIMIT $1")
	assert.Equal(t, []any{domain.DefaultPageSize}, params)
}

func TestBuildListQuery_AllFields(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	status := domain.PropertyStatusAvailable
	pt := domain.PropertyTypeCondo
	minPrice, maxPrice := int64(1000), int64(3000)
	city := "Austin"

	query, params := buildListQuery(domain.PropertyFilter{
		IDs:          ids,
		City:         &city,
		PropertyType: &pt,
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		Status:       &status,
		Limit:        1000,
	})

	assert.Contains(t, query, "property_id = ANY($1)")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "property_type = $3")
	assert.Contains(t, query, "price >= $4")
	assert.Contains(t, query, "price <= $5")
	assert.Contains(t, query, "LOWER(city) = LOWER($6)")
	assert.Contains(t, query, "LIMIT $7")
	assert.Equal(t, []any{ids, "available", "condo", minPrice, maxPrice, city, domain.MaxPageSize}, params)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *uuid.UUID:
			*v = r.values[i].(uuid.UUID)
		case *string:
			*v = r.values[i].(string)
		case *int64:
			*v = r.values[i].(int64)
		case *int:
			*v = r.values[i].(int)
		case *[]string:
			*v = r.values[i].([]string)
		}
	}
	return nil
}

func TestScanProperty(t *testing.T) {
	id := uuid.New()
	row := fakeRow{values: []any{
		id, "Loft", int64(1800), "apartment", 2,
		"1 Main St", "Austin", "Texas", "USA",
		[]string{"Gym"}, []string{"Water"}, []string{}, "available",
	}}

	p, err := scanProperty(row)
	require.NoError(t, err)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, domain.PropertyTypeApartment, p.PropertyType)
	assert.Equal(t, domain.PropertyStatusAvailable, p.Status)
	assert.Equal(t, []string{"Gym", "Water"}, p.Amenities())
}

func TestScanProperty_Error(t *testing.T) {
	_, err := scanProperty(fakeRow{err: errors.New("boom")})
	assert.Error(t, err)
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
