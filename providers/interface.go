package providers

import (
	"context"
	"time"

	"tripscout/models"
)

// SearchContext is the shared execution context handed to every adapter call.
type SearchContext struct {
	Locale        string
	Currency      string
	CredentialRef string // name of the credential entry the adapter should use
}

// HealthStatus is the outcome of an adapter health check.
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	ResponseTime time.Duration `json:"responseTime"`
}

// CategoryResult is what one adapter returns for one category search.
// Recoverable conditions (no results, rate limit, upstream timeout) are
// reported through Failure, never as a Go error; only unexpected faults
// travel the error return.
type CategoryResult struct {
	Results    []models.UnifiedResult
	TotalCount int
	HasMore    bool
	FromCache  bool
	Failure    *models.ProviderFailure
}

// Failed builds a CategoryResult carrying a structured failure.
func Failed(kind models.ProviderFailureKind, message string) *CategoryResult {
	return &CategoryResult{Failure: &models.ProviderFailure{Kind: kind, Message: message}}
}

// FlightParams are the flight-search inputs after normalization and resolution.
type FlightParams struct {
	Origin      models.ResolvedLocation
	Destination models.ResolvedLocation
	Departure   time.Time
	Return      *time.Time // nil for one-way
	Travelers   models.Travelers
	CabinClass  string
}

// HotelParams are the lodging-search inputs.
type HotelParams struct {
	Destination models.ResolvedLocation
	CheckIn     time.Time
	CheckOut    time.Time
	Rooms       int
	Guests      models.Travelers
}

// CarParams are the ground-transport inputs.
type CarParams struct {
	Pickup      models.ResolvedLocation
	PickupTime  time.Time
	DropoffTime time.Time
}

// ExperienceParams are the activities inputs.
type ExperienceParams struct {
	Destination models.ResolvedLocation
	From        time.Time
	To          time.Time
	Party       models.Travelers
}

// Adapter is the uniform contract every provider connector implements.
// An adapter advertises its supported categories; the planner only dispatches
// a category's search method to adapters that declared support.
type Adapter interface {
	Code() string
	Name() string
	Categories() []models.Category
	HealthCheck(ctx context.Context) HealthStatus

	SearchFlights(ctx context.Context, params FlightParams, sc SearchContext) (*CategoryResult, error)
	SearchHotels(ctx context.Context, params HotelParams, sc SearchContext) (*CategoryResult, error)
	SearchCars(ctx context.Context, params CarParams, sc SearchContext) (*CategoryResult, error)
	SearchExperiences(ctx context.Context, params ExperienceParams, sc SearchContext) (*CategoryResult, error)
}

// Supports reports whether the adapter declared support for the category.
func Supports(a Adapter, category models.Category) bool {
	for _, c := range a.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// Unsupported can be embedded by adapters to satisfy the search methods of
// categories they do not serve. Each method reports a structured failure so a
// mis-dispatched call never panics.
type Unsupported struct{}

func (Unsupported) SearchFlights(context.Context, FlightParams, SearchContext) (*CategoryResult, error) {
	return Failed(models.FailureUnavailable, "flights not supported by this provider"), nil
}

func (Unsupported) SearchHotels(context.Context, HotelParams, SearchContext) (*CategoryResult, error) {
	return Failed(models.FailureUnavailable, "hotels not supported by this provider"), nil
}

func (Unsupported) SearchCars(context.Context, CarParams, SearchContext) (*CategoryResult, error) {
	return Failed(models.FailureUnavailable, "cars not supported by this provider"), nil
}

func (Unsupported) SearchExperiences(context.Context, ExperienceParams, SearchContext) (*CategoryResult, error) {
	return Failed(models.FailureUnavailable, "experiences not supported by this provider"), nil
}
