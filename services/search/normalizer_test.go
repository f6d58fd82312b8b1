package search

import (
	"testing"
	"time"

	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return &Normalizer{DefaultCurrency: "USD", DefaultPageSize: 20}
}

func validRequest() models.SearchRequest {
	return models.SearchRequest{
		Mode:        models.ModeStays,
		Destination: &models.LocationQuery{Query: "paris"},
		Dates: &models.DateQuery{
			StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestNormalizeStripsEmptyOrigin(t *testing.T) {
	req := validRequest()
	req.Origin = &models.LocationQuery{Query: "  "}

	q, err := testNormalizer().Normalize(req)
	require.NoError(t, err)
	assert.Nil(t, q.Origin)
	assert.NotContains(t, q.Categories, models.CategoryFlight)
}

func TestNormalizeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SearchRequest)
		field  string
	}{
		{
			name:   "missing destination",
			mutate: func(r *models.SearchRequest) { r.Destination = nil },
			field:  "destination",
		},
		{
			name:   "blank destination",
			mutate: func(r *models.SearchRequest) { r.Destination = &models.LocationQuery{Query: "   "} },
			field:  "destination",
		},
		{
			name: "flight mode without origin",
			mutate: func(r *models.SearchRequest) {
				r.Mode = models.ModeFlights
				r.Origin = nil
			},
			field: "origin",
		},
		{
			name: "flight mode with empty origin object",
			mutate: func(r *models.SearchRequest) {
				r.Mode = models.ModeFlights
				r.Origin = &models.LocationQuery{}
			},
			field: "origin",
		},
		{
			name:   "missing dates",
			mutate: func(r *models.SearchRequest) { r.Dates = nil },
			field:  "dates",
		},
		{
			name: "end date precedes start date",
			mutate: func(r *models.SearchRequest) {
				r.Dates.EndDate = r.Dates.StartDate.Add(-24 * time.Hour)
			},
			field: "dates",
		},
		{
			name: "negative traveler count",
			mutate: func(r *models.SearchRequest) {
				r.Travelers = &models.Travelers{Adults: 1, Children: -1}
			},
			field: "travelers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := testNormalizer().Normalize(req)
			require.Error(t, err)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	req := models.SearchRequest{
		Destination: &models.LocationQuery{Query: "tokyo"},
		Dates:       &models.DateQuery{StartDate: time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)},
	}
	q, err := testNormalizer().Normalize(req)
	require.NoError(t, err)

	assert.Equal(t, models.ModeEverything, q.Mode)
	assert.Equal(t, models.Travelers{Adults: 1}, q.Travelers)
	assert.Equal(t, 1, q.Rooms)
	assert.Equal(t, models.TripOneWay, q.TripType)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, models.Paging{Page: 1, PageSize: 20}, q.Paging)
	assert.Equal(t, models.DateExact, q.Dates.Mode)
}

func TestNormalizeTripTypeInference(t *testing.T) {
	req := validRequest()
	q, err := testNormalizer().Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, models.TripRoundTrip, q.TripType)

	req.Dates.EndDate = time.Time{}
	q, err = testNormalizer().Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, models.TripOneWay, q.TripType)
}

func TestNormalizeCurrencyOverride(t *testing.T) {
	req := validRequest()
	req.Options = &models.SearchOptions{Currency: "eur", Limit: 5}
	q, err := testNormalizer().Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, "EUR", q.Currency)
	assert.Equal(t, 5, q.Paging.PageSize)
}

func TestCategoriesForMode(t *testing.T) {
	tests := []struct {
		mode      models.SearchMode
		hasOrigin bool
		want      []models.Category
	}{
		{models.ModeFlights, true, []models.Category{models.CategoryFlight}},
		{models.ModeStays, false, []models.Category{models.CategoryHotel}},
		{models.ModeCars, false, []models.Category{models.CategoryCar}},
		{models.ModeExperiences, false, []models.Category{models.CategoryExperience}},
		{models.ModeEverything, false, []models.Category{models.CategoryHotel, models.CategoryCar, models.CategoryExperience}},
		{models.ModeEverything, true, []models.Category{models.CategoryFlight, models.CategoryHotel, models.CategoryCar, models.CategoryExperience}},
		{models.ModePackage, true, []models.Category{models.CategoryFlight, models.CategoryHotel, models.CategoryExperience}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categoriesForMode(tt.mode, tt.hasOrigin), "mode %s hasOrigin %v", tt.mode, tt.hasOrigin)
	}
}
