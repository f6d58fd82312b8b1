// Package fixture provides deterministic in-memory provider adapters.
// They back local development and tests: inventories are a pure function of
// the provider code and the search parameters, so repeated searches return
// identical offers with identical ids.
package fixture

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"tripscout/models"
	"tripscout/providers"
)

// Adapter is a configurable fixture provider.
type Adapter struct {
	code       string
	name       string
	categories []models.Category

	// Latency delays every call; FailWith, when set, makes every call report
	// that failure. Both exist for timeout and partial-failure testing.
	Latency  time.Duration
	FailWith *models.ProviderFailure

	// OfferCount is how many offers each category search returns.
	OfferCount int

	// Now is the clock used for retrieval timestamps.
	Now func() time.Time
}

// New builds a fixture adapter serving the given categories.
func New(code, name string, categories ...models.Category) *Adapter {
	return &Adapter{
		code:       code,
		name:       name,
		categories: categories,
		OfferCount: 8,
		Now:        time.Now,
	}
}

func (a *Adapter) Code() string                  { return a.code }
func (a *Adapter) Name() string                  { return a.name }
func (a *Adapter) Categories() []models.Category { return a.categories }

func (a *Adapter) HealthCheck(ctx context.Context) providers.HealthStatus {
	return providers.HealthStatus{Healthy: a.FailWith == nil, ResponseTime: a.Latency}
}

// wait simulates upstream latency, honoring cancellation.
func (a *Adapter) wait(ctx context.Context) *models.ProviderFailure {
	if a.Latency <= 0 {
		return nil
	}
	select {
	case <-time.After(a.Latency):
		return nil
	case <-ctx.Done():
		return &models.ProviderFailure{Kind: models.FailureTimeout, Message: ctx.Err().Error()}
	}
}

func (a *Adapter) pre(ctx context.Context) (*providers.CategoryResult, bool) {
	if f := a.wait(ctx); f != nil {
		return &providers.CategoryResult{Failure: f}, false
	}
	if a.FailWith != nil {
		f := *a.FailWith
		return &providers.CategoryResult{Failure: &f}, false
	}
	return nil, true
}

// seed derives a deterministic per-offer value in [0,1) from the adapter
// code and an arbitrary key.
func (a *Adapter) seed(key string) float64 {
	h := fnv.New64a()
	h.Write([]byte(a.code))
	h.Write([]byte(key))
	return float64(h.Sum64()%10000) / 10000
}

var fixtureCarriers = []string{"DL", "UA", "AA", "B6", "AF", "LH"}

func (a *Adapter) SearchFlights(ctx context.Context, p providers.FlightParams, sc providers.SearchContext) (*providers.CategoryResult, error) {
	if res, ok := a.pre(ctx); !ok {
		return res, nil
	}
	now := a.Now()
	route := p.Origin.Code + "-" + p.Destination.Code
	results := make([]models.UnifiedResult, 0, a.OfferCount)
	for i := 0; i < a.OfferCount; i++ {
		key := fmt.Sprintf("%s/%d", route, i)
		s := a.seed(key)
		carrier := fixtureCarriers[i%len(fixtureCarriers)]
		dep := p.Departure.Truncate(24 * time.Hour).Add(time.Duration(6+i*2) * time.Hour)
		dur := time.Duration(300+int(s*120)) * time.Minute
		stops := i % 3

		r := models.UnifiedResult{
			Category: models.CategoryFlight,
			NativeID: fmt.Sprintf("%s-%s-%d", a.code, route, i),
			Price: models.Price{
				Amount:   float64(120 + int(s*480)),
				Currency: sc.Currency,
				Total:    float64(120+int(s*480)) + 35,
			},
			Flight: &models.FlightResult{
				Segments: []models.FlightSegment{{
					Origin:           p.Origin.Code,
					Destination:      p.Destination.Code,
					DepartureTime:    dep,
					ArrivalTime:      dep.Add(dur),
					MarketingCarrier: carrier,
					FlightNumber:     fmt.Sprintf("%s%d", carrier, 100+i),
				}},
				Stops:      stops,
				CabinClass: p.CabinClass,
				FareClass:  []string{"Y", "B", "M"}[i%3],
				Duration:   dur,
				Refundable: i%2 == 0,
			},
		}
		providers.Stamp(&r, a.code, a.name, now)
		results = append(results, r)
	}
	return &providers.CategoryResult{Results: results, TotalCount: len(results)}, nil
}

func (a *Adapter) SearchHotels(ctx context.Context, p providers.HotelParams, sc providers.SearchContext) (*providers.CategoryResult, error) {
	if res, ok := a.pre(ctx); !ok {
		return res, nil
	}
	now := a.Now()
	results := make([]models.UnifiedResult, 0, a.OfferCount)
	for i := 0; i < a.OfferCount; i++ {
		key := fmt.Sprintf("%s/hotel/%d", p.Destination.Code, i)
		s := a.seed(key)
		r := models.UnifiedResult{
			Category: models.CategoryHotel,
			NativeID: fmt.Sprintf("%s-H-%s-%d", a.code, p.Destination.Code, i),
			Price: models.Price{
				Amount:   float64(70 + int(s*400)),
				Currency: sc.Currency,
				Total:    float64(70+int(s*400)) + 18,
			},
			Hotel: &models.HotelResult{
				Name:        fmt.Sprintf("%s Hotel %d", p.Destination.DisplayName, i+1),
				StarRating:  float64(2 + i%4),
				GuestRating: 6.0 + s*4,
				ReviewCount: 40 + int(s*2000),
				Coordinates: models.Coordinates{
					Latitude:  p.Destination.Coordinates.Latitude + s*0.05,
					Longitude: p.Destination.Coordinates.Longitude - s*0.05,
				},
				CheckIn:   p.CheckIn,
				CheckOut:  p.CheckOut,
				RoomType:  []string{"standard", "deluxe", "suite"}[i%3],
				Amenities: []string{"wifi", "breakfast", "pool"}[:1+i%3],
			},
		}
		providers.Stamp(&r, a.code, a.name, now)
		results = append(results, r)
	}
	return &providers.CategoryResult{Results: results, TotalCount: len(results)}, nil
}

func (a *Adapter) SearchCars(ctx context.Context, p providers.CarParams, sc providers.SearchContext) (*providers.CategoryResult, error) {
	if res, ok := a.pre(ctx); !ok {
		return res, nil
	}
	now := a.Now()
	classes := []string{"economy", "compact", "suv", "premium"}
	results := make([]models.UnifiedResult, 0, a.OfferCount)
	for i := 0; i < a.OfferCount; i++ {
		s := a.seed(fmt.Sprintf("%s/car/%d", p.Pickup.Code, i))
		r := models.UnifiedResult{
			Category: models.CategoryCar,
			NativeID: fmt.Sprintf("%s-C-%s-%d", a.code, p.Pickup.Code, i),
			Price: models.Price{
				Amount:   float64(25 + int(s*120)),
				Currency: sc.Currency,
				Total:    float64(25+int(s*120)) + 9,
			},
			Car: &models.CarResult{
				VehicleClass: classes[i%len(classes)],
				VehicleName:  fmt.Sprintf("Fixture %s %d", classes[i%len(classes)], i+1),
				PickupPlace:  p.Pickup.DisplayName,
				DropoffPlace: p.Pickup.DisplayName,
				PickupTime:   p.PickupTime,
				DropoffTime:  p.DropoffTime,
				Seats:        4 + i%3,
				Transmission: []string{"automatic", "manual"}[i%2],
			},
		}
		providers.Stamp(&r, a.code, a.name, now)
		results = append(results, r)
	}
	return &providers.CategoryResult{Results: results, TotalCount: len(results)}, nil
}

func (a *Adapter) SearchExperiences(ctx context.Context, p providers.ExperienceParams, sc providers.SearchContext) (*providers.CategoryResult, error) {
	if res, ok := a.pre(ctx); !ok {
		return res, nil
	}
	now := a.Now()
	results := make([]models.UnifiedResult, 0, a.OfferCount)
	for i := 0; i < a.OfferCount; i++ {
		s := a.seed(fmt.Sprintf("%s/exp/%d", p.Destination.Code, i))
		r := models.UnifiedResult{
			Category: models.CategoryExperience,
			NativeID: fmt.Sprintf("%s-E-%s-%d", a.code, p.Destination.Code, i),
			Price: models.Price{
				Amount:   float64(15 + int(s*180)),
				Currency: sc.Currency,
				Total:    float64(15 + int(s*180)),
			},
			Experience: &models.ExperienceResult{
				Title:       fmt.Sprintf("%s experience %d", p.Destination.DisplayName, i+1),
				Rating:      3.0 + s*2,
				ReviewCount: 10 + int(s*900),
				Duration:    time.Duration(1+i%5) * time.Hour,
				Coordinates: p.Destination.Coordinates,
				Tags:        []string{"outdoor", "culture", "food"}[:1+i%3],
			},
		}
		providers.Stamp(&r, a.code, a.name, now)
		results = append(results, r)
	}
	return &providers.CategoryResult{Results: results, TotalCount: len(results)}, nil
}
