package providers

import (
	"context"
	"errors"
	"time"

	"tripscout/models"

	"github.com/sony/gobreaker"
)

// BreakerAdapter wraps an Adapter with a circuit breaker. While the circuit
// is open, calls report a structured unavailable failure without touching the
// upstream. Recoverable timeout/upstream failures count against the circuit;
// empty result sets and rate limits do not.
type BreakerAdapter struct {
	Adapter
	cb *gobreaker.CircuitBreaker
}

// WithBreaker wraps the adapter with a circuit breaker tripping after
// consecutiveFailures consecutive failed calls, recovering after cooldown.
func WithBreaker(a Adapter, consecutiveFailures uint32, cooldown time.Duration) *BreakerAdapter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    a.Code(),
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
	})
	return &BreakerAdapter{Adapter: a, cb: cb}
}

func (b *BreakerAdapter) execute(call func() (*CategoryResult, error)) (*CategoryResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		res, err := call()
		if err != nil {
			return nil, err
		}
		if res.Failure != nil && tripsCircuit(res.Failure.Kind) {
			return res, *res.Failure
		}
		return res, nil
	})
	if err != nil {
		var failure models.ProviderFailure
		switch {
		case errors.As(err, &failure):
			// The underlying adapter already produced a structured failure.
			return &CategoryResult{Failure: &failure}, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return Failed(models.FailureUnavailable, "circuit open for provider "+b.Code()), nil
		default:
			return nil, err
		}
	}
	return out.(*CategoryResult), nil
}

func tripsCircuit(kind models.ProviderFailureKind) bool {
	return kind == models.FailureTimeout || kind == models.FailureUpstream
}

func (b *BreakerAdapter) SearchFlights(ctx context.Context, params FlightParams, sc SearchContext) (*CategoryResult, error) {
	return b.execute(func() (*CategoryResult, error) { return b.Adapter.SearchFlights(ctx, params, sc) })
}

func (b *BreakerAdapter) SearchHotels(ctx context.Context, params HotelParams, sc SearchContext) (*CategoryResult, error) {
	return b.execute(func() (*CategoryResult, error) { return b.Adapter.SearchHotels(ctx, params, sc) })
}

func (b *BreakerAdapter) SearchCars(ctx context.Context, params CarParams, sc SearchContext) (*CategoryResult, error) {
	return b.execute(func() (*CategoryResult, error) { return b.Adapter.SearchCars(ctx, params, sc) })
}

func (b *BreakerAdapter) SearchExperiences(ctx context.Context, params ExperienceParams, sc SearchContext) (*CategoryResult, error) {
	return b.execute(func() (*CategoryResult, error) { return b.Adapter.SearchExperiences(ctx, params, sc) })
}
