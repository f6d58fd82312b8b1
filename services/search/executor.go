package search

import (
	"context"
	"time"

	"tripscout/models"
	"tripscout/providers"

	"go.uber.org/zap"
)

// Executor runs an execution plan against the adapter registry. Provider
// calls within a phase run concurrently, each bounded by its own per-call
// timeout and by the phase's and plan's overall deadline. A call still
// outstanding when its phase is abandoned is recorded as a failure; its
// eventual result, if any, lands in a buffered channel nobody reads, so it
// never mutates shared state.
type Executor struct {
	Registry *providers.Registry
	Config   PlannerConfig
	Logger   *zap.Logger
}

// Execute runs every phase of the plan in order and returns one
// ExecutionResult per provider call.
func (e *Executor) Execute(ctx context.Context, plan models.ExecutionPlan, q models.EnrichedQuery) []models.ExecutionResult {
	ctx, cancel := context.WithTimeout(ctx, plan.Timeout)
	defer cancel()

	var all []models.ExecutionResult
	for _, phase := range plan.Phases {
		if ctx.Err() != nil {
			// The overall plan deadline elapsed: record the remaining phases
			// without calling anyone.
			for _, code := range phase.Providers {
				all = append(all, abandonedResult(code, phase.Category, 0))
			}
			continue
		}
		all = append(all, e.runPhase(ctx, phase, q)...)
	}
	return all
}

func (e *Executor) runPhase(ctx context.Context, phase models.ExecutionPhase, q models.EnrichedQuery) []models.ExecutionResult {
	phaseCtx, cancel := context.WithTimeout(ctx, phase.Timeout)
	defer cancel()

	started := time.Now()
	// Buffered so a straggler can finish its send after abandonment.
	ch := make(chan models.ExecutionResult, len(phase.Providers))

	outcomes := make([]models.ExecutionResult, 0, len(phase.Providers))
	inFlight := 0
	for _, code := range phase.Providers {
		adapter, ok := e.Registry.ByCode(code)
		if !ok || !providers.Supports(adapter, phase.Category) {
			outcomes = append(outcomes, models.ExecutionResult{
				ProviderCode: code,
				Category:     phase.Category,
				Failure:      &models.ProviderFailure{Kind: models.FailureUnavailable, Message: "provider not registered for category"},
			})
			continue
		}
		inFlight++
		go e.callProvider(phaseCtx, adapter, phase.Category, q, ch)
	}

	itemCount := 0
	answered := make(map[string]bool, inFlight)
collect:
	for received := 0; received < inFlight; received++ {
		select {
		case r := <-ch:
			outcomes = append(outcomes, r)
			answered[r.ProviderCode] = true
			if r.Success {
				itemCount += len(r.Results)
			}
			if !phase.WaitForAll && phase.MinResults > 0 && itemCount >= phase.MinResults {
				// Threshold met: stop awaiting stragglers.
				cancel()
				break collect
			}
		case <-phaseCtx.Done():
			break collect
		}
	}

	// Record every provider that never answered as abandoned.
	elapsed := time.Since(started)
	for _, code := range phase.Providers {
		if adapter, ok := e.Registry.ByCode(code); !ok || !providers.Supports(adapter, phase.Category) {
			continue
		}
		if !answered[code] {
			outcomes = append(outcomes, abandonedResult(code, phase.Category, elapsed))
		}
	}
	return outcomes
}

func abandonedResult(code string, cat models.Category, elapsed time.Duration) models.ExecutionResult {
	return models.ExecutionResult{
		ProviderCode: code,
		Category:     cat,
		ResponseTime: elapsed,
		Failure:      &models.ProviderFailure{Kind: models.FailureAbandoned, Message: "abandoned: phase deadline or threshold reached"},
	}
}

// callProvider performs one bounded provider call and sends its outcome.
func (e *Executor) callProvider(ctx context.Context, adapter providers.Adapter, cat models.Category, q models.EnrichedQuery, ch chan<- models.ExecutionResult) {
	callCtx, cancel := context.WithTimeout(ctx, e.Config.CallTimeout)
	defer cancel()

	sc := providers.SearchContext{Currency: q.Currency, Locale: "en"}
	started := time.Now()
	res, err := dispatch(callCtx, adapter, cat, q, sc)
	elapsed := time.Since(started)

	out := models.ExecutionResult{
		ProviderCode: adapter.Code(),
		Category:     cat,
		ResponseTime: elapsed,
	}
	switch {
	case err != nil:
		// Unexpected fault: isolated to this provider's result, never
		// propagated to the caller.
		e.Logger.Error("provider call failed",
			zap.String("provider", adapter.Code()),
			zap.String("category", string(cat)),
			zap.Error(err))
		out.Failure = &models.ProviderFailure{Kind: models.FailureUpstream, Message: err.Error()}
	case res.Failure != nil:
		out.Failure = res.Failure
	default:
		out.Success = true
		out.Results = res.Results
		out.TotalCount = res.TotalCount
		out.HasMore = res.HasMore
		out.FromCache = res.FromCache
	}
	ch <- out
}

// dispatch routes a category search to the adapter method that serves it,
// building category parameters from the enriched query.
func dispatch(ctx context.Context, adapter providers.Adapter, cat models.Category, q models.EnrichedQuery, sc providers.SearchContext) (*providers.CategoryResult, error) {
	switch cat {
	case models.CategoryFlight:
		return adapter.SearchFlights(ctx, flightParams(q), sc)
	case models.CategoryHotel:
		return adapter.SearchHotels(ctx, hotelParams(q), sc)
	case models.CategoryCar:
		return adapter.SearchCars(ctx, carParams(q), sc)
	case models.CategoryExperience:
		return adapter.SearchExperiences(ctx, experienceParams(q), sc)
	default:
		return providers.Failed(models.FailureUnavailable, "unknown category"), nil
	}
}

func flightParams(q models.EnrichedQuery) providers.FlightParams {
	p := providers.FlightParams{
		Destination: q.ResolvedDestination,
		Departure:   q.Dates.StartDate,
		Travelers:   q.Travelers,
		CabinClass:  q.CabinClass,
	}
	if q.ResolvedOrigin != nil {
		p.Origin = *q.ResolvedOrigin
	}
	if q.TripType == models.TripRoundTrip {
		ret := q.Dates.EndDate
		p.Return = &ret
	}
	return p
}

func hotelParams(q models.EnrichedQuery) providers.HotelParams {
	checkOut := q.Dates.EndDate
	if checkOut.IsZero() {
		checkOut = q.Dates.StartDate.Add(48 * time.Hour)
	}
	return providers.HotelParams{
		Destination: q.ResolvedDestination,
		CheckIn:     q.Dates.StartDate,
		CheckOut:    checkOut,
		Rooms:       q.Rooms,
		Guests:      q.Travelers,
	}
}

func carParams(q models.EnrichedQuery) providers.CarParams {
	dropoff := q.Dates.EndDate
	if dropoff.IsZero() {
		dropoff = q.Dates.StartDate.Add(72 * time.Hour)
	}
	return providers.CarParams{
		Pickup:      q.ResolvedDestination,
		PickupTime:  q.Dates.StartDate,
		DropoffTime: dropoff,
	}
}

func experienceParams(q models.EnrichedQuery) providers.ExperienceParams {
	to := q.Dates.EndDate
	if to.IsZero() {
		to = q.Dates.StartDate.Add(7 * 24 * time.Hour)
	}
	return providers.ExperienceParams{
		Destination: q.ResolvedDestination,
		From:        q.Dates.StartDate,
		To:          to,
		Party:       q.Travelers,
	}
}
