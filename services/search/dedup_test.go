package search

import (
	"math/rand"
	"testing"
	"time"

	"tripscout/models"
	"tripscout/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDedup() *Deduplicator {
	return &Deduplicator{
		Config: DedupConfig{
			SimilarityThreshold: 0.85,
			TimeBucket:          30 * time.Minute,
			GeoCellKm:           1.0,
		},
	}
}

var dedupDeparture = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func flightOffer(provider, nativeID string, total float64, departure time.Time, carrier, fareClass string) models.UnifiedResult {
	r := models.UnifiedResult{
		Category: models.CategoryFlight,
		NativeID: nativeID,
		Price:    models.Price{Amount: total, Currency: "USD", Total: total},
		Flight: &models.FlightResult{
			Segments: []models.FlightSegment{{
				Origin:           "JFK",
				Destination:      "PAR",
				DepartureTime:    departure,
				ArrivalTime:      departure.Add(7 * time.Hour),
				MarketingCarrier: carrier,
				FlightNumber:     carrier + "100",
			}},
			FareClass: fareClass,
			Duration:  7 * time.Hour,
		},
	}
	providers.Stamp(&r, provider, provider, dedupDeparture)
	return r
}

func hotelOffer(provider, nativeID, name string, total, lat, lon float64) models.UnifiedResult {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	r := models.UnifiedResult{
		Category: models.CategoryHotel,
		NativeID: nativeID,
		Price:    models.Price{Amount: total, Currency: "USD", Total: total},
		Hotel: &models.HotelResult{
			Name:        name,
			Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
			CheckIn:     checkIn,
			CheckOut:    checkIn.Add(72 * time.Hour),
		},
	}
	providers.Stamp(&r, provider, provider, checkIn)
	return r
}

func TestDeduplicateGroupsSameFlightAcrossProviders(t *testing.T) {
	cheap := flightOffer("aerolink", "AL-1", 420, dedupDeparture, "DL", "Y")
	dear := flightOffer("skyways", "SW-1", 450, dedupDeparture, "DL", "Y")
	other := flightOffer("skyways", "SW-2", 300, dedupDeparture.Add(4*time.Hour), "UA", "M")

	groups := testDedup().Deduplicate(models.CategoryFlight, []models.UnifiedResult{cheap, dear, other})
	require.Len(t, groups, 2)

	var pair models.DuplicateGroup
	for _, g := range groups {
		if g.Size() == 2 {
			pair = g
		}
	}
	require.Equal(t, 2, pair.Size())
	assert.Equal(t, cheap.ID, pair.Primary.ID, "the lower-priced member is the primary")
	require.Len(t, pair.Duplicates, 1)
	assert.Equal(t, dear.ID, pair.Duplicates[0].Result.ID)
	assert.InDelta(t, 30, pair.Duplicates[0].PriceDelta, 0.001)
	assert.GreaterOrEqual(t, pair.Duplicates[0].Similarity, 0.85)
}

func TestDeduplicateOrderIndependent(t *testing.T) {
	offers := []models.UnifiedResult{
		flightOffer("aerolink", "AL-1", 420, dedupDeparture, "DL", "Y"),
		flightOffer("skyways", "SW-1", 450, dedupDeparture, "DL", "Y"),
		flightOffer("omnitrip", "OT-1", 435, dedupDeparture, "DL", "Y"),
		flightOffer("skyways", "SW-2", 300, dedupDeparture.Add(4*time.Hour), "UA", "M"),
		flightOffer("aerolink", "AL-2", 520, dedupDeparture.Add(9*time.Hour), "AF", "B"),
	}

	d := testDedup()
	baseline := d.Deduplicate(models.CategoryFlight, offers)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.UnifiedResult, len(offers))
		copy(shuffled, offers)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, baseline, d.Deduplicate(models.CategoryFlight, shuffled))
	}
}

func TestDeduplicatePrimaryTieBreaksByProviderPriority(t *testing.T) {
	a := flightOffer("aerolink", "AL-1", 400, dedupDeparture, "DL", "Y")
	b := flightOffer("skyways", "SW-1", 400, dedupDeparture, "DL", "Y")

	d := testDedup()
	d.ProviderLess = func(x, y string) bool { return x == "skyways" && y != "skyways" }

	groups := d.Deduplicate(models.CategoryFlight, []models.UnifiedResult{a, b})
	require.Len(t, groups, 1)
	assert.Equal(t, b.ID, groups[0].Primary.ID)
}

func TestDeduplicateHotelsByNameAndGeo(t *testing.T) {
	a := hotelOffer("stayhub", "SH-1", "Grand Palace Hotel", 180, 48.8566, 2.3522)
	b := hotelOffer("roomrate", "RR-1", "Grand Palace Hotel", 175, 48.8567, 2.3523)
	c := hotelOffer("stayhub", "SH-2", "Riverside Inn", 90, 48.8570, 2.3530)

	groups := testDedup().Deduplicate(models.CategoryHotel, []models.UnifiedResult{a, b, c})
	require.Len(t, groups, 2)

	for _, g := range groups {
		if g.Size() == 2 {
			assert.Equal(t, b.ID, g.Primary.ID, "the cheaper listing becomes the primary")
		}
	}
}

func TestCollapseFoldsDuplicatesIntoAlternatives(t *testing.T) {
	cheap := flightOffer("aerolink", "AL-1", 420, dedupDeparture, "DL", "Y")
	dear := flightOffer("skyways", "SW-1", 450, dedupDeparture, "DL", "Y")

	groups := testDedup().Deduplicate(models.CategoryFlight, []models.UnifiedResult{cheap, dear})
	unique := Collapse(groups)

	require.Len(t, unique, 1)
	assert.Equal(t, cheap.ID, unique[0].ID)
	require.Len(t, unique[0].Alternatives, 1)
	alt := unique[0].Alternatives[0]
	assert.Equal(t, dear.ID, alt.OfferID)
	assert.Equal(t, "skyways", alt.Provider.Code)
	assert.InDelta(t, 30, alt.PriceDelta, 0.001)
}

func TestDeduplicateEmptyInput(t *testing.T) {
	groups := testDedup().Deduplicate(models.CategoryFlight, nil)
	assert.Empty(t, groups)
	assert.Empty(t, Collapse(groups))
}
