package search

import (
	"testing"
	"time"

	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixtures() []models.UnifiedResult {
	dep := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	nonstop := flightOffer("skyways", "SW-1", 420, dep, "DL", "Y")
	oneStop := flightOffer("aerolink", "AL-1", 300, dep.Add(6*time.Hour), "UA", "M")
	oneStop.Flight.Stops = 1
	twoStops := flightOffer("omnitrip", "OT-1", 210, dep.Add(10*time.Hour), "AA", "B")
	twoStops.Flight.Stops = 2
	return []models.UnifiedResult{nonstop, oneStop, twoStops}
}

func TestDeriveFiltersFlight(t *testing.T) {
	defs := FilterEngine{}.DeriveFilters(models.CategoryFlight, filterFixtures())

	byID := make(map[string]models.FilterDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}

	price, ok := byID["price"]
	require.True(t, ok)
	assert.Equal(t, models.FilterRange, price.Kind)
	assert.Equal(t, 210.0, price.Min)
	assert.Equal(t, 420.0, price.Max)

	airlines, ok := byID["airlines"]
	require.True(t, ok)
	require.Len(t, airlines.Options, 3)
	// Options come back in deterministic sorted order.
	assert.Equal(t, "AA", airlines.Options[0].Value)
	assert.Equal(t, "DL", airlines.Options[1].Value)
	assert.Equal(t, "UA", airlines.Options[2].Value)

	stops, ok := byID["stops"]
	require.True(t, ok)
	assert.Len(t, stops.Options, 3)

	_, ok = byID["refundable"]
	assert.True(t, ok)
}

func TestDeriveFiltersEmptySet(t *testing.T) {
	assert.Nil(t, FilterEngine{}.DeriveFilters(models.CategoryFlight, nil))
}

func TestApplyNonstopFilter(t *testing.T) {
	results := filterFixtures()
	filters := models.AppliedFilters{Stops: []int{0}}

	filtered, stats := FilterEngine{}.Apply(results, filters)
	assert.Equal(t, 3, stats.TotalBefore)
	assert.Equal(t, 1, stats.TotalAfter)
	require.Len(t, filtered, 1)
	assert.Equal(t, 0, filtered[0].Flight.Stops)
	assert.LessOrEqual(t, stats.TotalAfter, stats.TotalBefore)
}

func TestApplyIsIdempotent(t *testing.T) {
	results := filterFixtures()
	max := 350.0
	filters := models.AppliedFilters{Price: &models.RangeFilter{Max: &max}}

	once, onceStats := FilterEngine{}.Apply(results, filters)
	twice, twiceStats := FilterEngine{}.Apply(once, filters)

	assert.Equal(t, once, twice)
	assert.Equal(t, onceStats.TotalAfter, twiceStats.TotalAfter)
	assert.Equal(t, len(once), twiceStats.TotalBefore)
}

func TestApplyZeroFiltersReturnsAll(t *testing.T) {
	results := filterFixtures()
	filtered, stats := FilterEngine{}.Apply(results, models.AppliedFilters{})
	assert.Len(t, filtered, len(results))
	assert.Equal(t, stats.TotalBefore, stats.TotalAfter)
}

func TestApplyProviderAndAirlineFilters(t *testing.T) {
	results := filterFixtures()

	filtered, _ := FilterEngine{}.Apply(results, models.AppliedFilters{Providers: []string{"skyways"}})
	require.Len(t, filtered, 1)
	assert.Equal(t, "skyways", filtered[0].Provider.Code)

	filtered, _ = FilterEngine{}.Apply(results, models.AppliedFilters{Airlines: []string{"UA", "AA"}})
	assert.Len(t, filtered, 2)
}

func TestApplyDepartureTimeWindow(t *testing.T) {
	results := filterFixtures()
	// Keep departures between 06:00 and 12:00.
	filtered, _ := FilterEngine{}.Apply(results, models.AppliedFilters{
		DepartureTime: &models.TimeRangeFilter{StartMinute: 6 * 60, EndMinute: 12 * 60},
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, 8, filtered[0].Flight.Departure().Hour())
}

func TestAvailableSorts(t *testing.T) {
	assert.Contains(t, FilterEngine{}.AvailableSorts(models.CategoryFlight), "duration")
	assert.Contains(t, FilterEngine{}.AvailableSorts(models.CategoryHotel), "rating")
	assert.NotContains(t, FilterEngine{}.AvailableSorts(models.CategoryCar), "rating")
}

func TestApplySortPrice(t *testing.T) {
	results := filterFixtures()

	asc := FilterEngine{}.ApplySort(results, "price_asc")
	require.Len(t, asc, 3)
	assert.Equal(t, 210.0, asc[0].Price.Total)
	assert.Equal(t, 420.0, asc[2].Price.Total)

	desc := FilterEngine{}.ApplySort(results, "price_desc")
	assert.Equal(t, 420.0, desc[0].Price.Total)
}

func TestApplySortBestKeepsOrder(t *testing.T) {
	results := filterFixtures()
	sorted := FilterEngine{}.ApplySort(results, "best")
	assert.Equal(t, results, sorted)
}

func TestApplySortTieFallsBackToID(t *testing.T) {
	dep := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	a := flightOffer("skyways", "SW-1", 300, dep, "DL", "Y")
	b := flightOffer("aerolink", "AL-1", 300, dep, "UA", "Y")

	first := FilterEngine{}.ApplySort([]models.UnifiedResult{a, b}, "price_asc")
	second := FilterEngine{}.ApplySort([]models.UnifiedResult{b, a}, "price_asc")
	assert.Equal(t, first, second)
}
