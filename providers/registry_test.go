package providers

import (
	"context"
	"testing"

	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	Unsupported
	code       string
	categories []models.Category
}

func (s *stubAdapter) Code() string                  { return s.code }
func (s *stubAdapter) Name() string                  { return s.code }
func (s *stubAdapter) Categories() []models.Category { return s.categories }
func (s *stubAdapter) HealthCheck(context.Context) HealthStatus {
	return HealthStatus{Healthy: true}
}

func TestNewRegistryRejectsDuplicateCodes(t *testing.T) {
	_, err := NewRegistry(nil,
		&stubAdapter{code: "alpha", categories: []models.Category{models.CategoryFlight}},
		&stubAdapter{code: "alpha", categories: []models.Category{models.CategoryHotel}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate provider code")
}

func TestRegistryPriorityOrdering(t *testing.T) {
	reg, err := NewRegistry([]string{"beta", "alpha"},
		&stubAdapter{code: "alpha", categories: []models.Category{models.CategoryFlight}},
		&stubAdapter{code: "beta", categories: []models.Category{models.CategoryFlight}},
		&stubAdapter{code: "gamma", categories: []models.Category{models.CategoryFlight}},
	)
	require.NoError(t, err)

	flights := reg.ByCategory(models.CategoryFlight)
	require.Len(t, flights, 3)
	// Listed codes first in priority order, unlisted after, by code.
	assert.Equal(t, "beta", flights[0].Code())
	assert.Equal(t, "alpha", flights[1].Code())
	assert.Equal(t, "gamma", flights[2].Code())
}

func TestRegistryLess(t *testing.T) {
	reg, err := NewRegistry([]string{"first", "second"},
		&stubAdapter{code: "first", categories: []models.Category{models.CategoryCar}},
	)
	require.NoError(t, err)

	assert.True(t, reg.Less("first", "second"))
	assert.False(t, reg.Less("second", "first"))
	assert.True(t, reg.Less("first", "unlisted"))
	assert.False(t, reg.Less("unlisted", "first"))
	// Two unlisted codes fall back to lexical order.
	assert.True(t, reg.Less("aaa", "bbb"))
}

func TestRegistryByCode(t *testing.T) {
	reg, err := NewRegistry(nil,
		&stubAdapter{code: "alpha", categories: []models.Category{models.CategoryHotel}},
	)
	require.NoError(t, err)

	a, ok := reg.ByCode("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", a.Code())

	_, ok = reg.ByCode("missing")
	assert.False(t, ok)
}

func TestSupports(t *testing.T) {
	a := &stubAdapter{code: "alpha", categories: []models.Category{models.CategoryHotel, models.CategoryCar}}
	assert.True(t, Supports(a, models.CategoryHotel))
	assert.False(t, Supports(a, models.CategoryFlight))
}
