package fixture

import (
	"context"
	"testing"
	"time"

	"tripscout/models"
	"tripscout/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDestination = models.ResolvedLocation{
	Code:        "PAR",
	DisplayName: "Paris",
	Type:        models.LocationCity,
	Coordinates: models.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
}

var testOrigin = models.ResolvedLocation{
	Code:        "JFK",
	DisplayName: "New York JFK",
	Type:        models.LocationAirport,
}

func flightParams() providers.FlightParams {
	return providers.FlightParams{
		Origin:      testOrigin,
		Destination: testDestination,
		Departure:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Travelers:   models.Travelers{Adults: 2},
	}
}

func TestFlightsDeterministic(t *testing.T) {
	a := New("skyways", "Skyways GDS", models.CategoryFlight)
	sc := providers.SearchContext{Currency: "USD"}

	first, err := a.SearchFlights(context.Background(), flightParams(), sc)
	require.NoError(t, err)
	second, err := a.SearchFlights(context.Background(), flightParams(), sc)
	require.NoError(t, err)

	require.Len(t, first.Results, a.OfferCount)
	require.Len(t, second.Results, a.OfferCount)
	for i := range first.Results {
		assert.Equal(t, first.Results[i].ID, second.Results[i].ID)
		assert.Equal(t, first.Results[i].Price.Total, second.Results[i].Price.Total)
	}
}

func TestResultsAreStamped(t *testing.T) {
	a := New("stayhub", "StayHub", models.CategoryHotel)
	res, err := a.SearchHotels(context.Background(), providers.HotelParams{
		Destination: testDestination,
		CheckIn:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		Rooms:       1,
		Guests:      models.Travelers{Adults: 2},
	}, providers.SearchContext{Currency: "EUR"})
	require.NoError(t, err)

	for _, r := range res.Results {
		assert.Equal(t, providers.OfferID("stayhub", r.NativeID), r.ID)
		assert.Equal(t, "stayhub", r.Provider.Code)
		assert.Equal(t, models.CategoryHotel, r.Category)
		require.NotNil(t, r.Hotel)
		assert.Equal(t, "EUR", r.Price.Currency)
	}
}

func TestFailWithReportsStructuredFailure(t *testing.T) {
	a := New("wheelsgo", "WheelsGo", models.CategoryCar)
	a.FailWith = &models.ProviderFailure{Kind: models.FailureUpstream, Message: "inventory service down"}

	res, err := a.SearchCars(context.Background(), providers.CarParams{Pickup: testDestination}, providers.SearchContext{})
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, models.FailureUpstream, res.Failure.Kind)
	assert.Empty(t, res.Results)
}

func TestLatencyHonorsCancellation(t *testing.T) {
	a := New("omnitrip", "OmniTrip", models.CategoryExperience)
	a.Latency = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	started := time.Now()
	res, err := a.SearchExperiences(ctx, providers.ExperienceParams{Destination: testDestination}, providers.SearchContext{})
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, models.FailureTimeout, res.Failure.Kind)
	assert.Less(t, time.Since(started), time.Second, "cancellation must short-circuit the latency wait")
}
