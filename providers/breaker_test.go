package providers

import (
	"context"
	"testing"
	"time"

	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyAdapter struct {
	stubAdapter
	result *CategoryResult
}

func (f *flakyAdapter) SearchFlights(context.Context, FlightParams, SearchContext) (*CategoryResult, error) {
	return f.result, nil
}

func newFlaky(result *CategoryResult) *flakyAdapter {
	return &flakyAdapter{
		stubAdapter: stubAdapter{code: "flaky", categories: []models.Category{models.CategoryFlight}},
		result:      result,
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	ok := &CategoryResult{Results: []models.UnifiedResult{{ID: "a"}}, TotalCount: 1}
	b := WithBreaker(newFlaky(ok), 3, time.Minute)

	res, err := b.SearchFlights(context.Background(), FlightParams{}, SearchContext{})
	require.NoError(t, err)
	require.Nil(t, res.Failure)
	assert.Len(t, res.Results, 1)
}

func TestBreakerOpensAfterConsecutiveUpstreamFailures(t *testing.T) {
	failing := newFlaky(Failed(models.FailureUpstream, "boom"))
	b := WithBreaker(failing, 2, time.Minute)

	for i := 0; i < 2; i++ {
		res, err := b.SearchFlights(context.Background(), FlightParams{}, SearchContext{})
		require.NoError(t, err)
		require.NotNil(t, res.Failure)
		assert.Equal(t, models.FailureUpstream, res.Failure.Kind)
	}

	// Circuit is now open: the upstream is no longer called and the failure
	// kind switches to unavailable.
	res, err := b.SearchFlights(context.Background(), FlightParams{}, SearchContext{})
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, models.FailureUnavailable, res.Failure.Kind)
	assert.Contains(t, res.Failure.Message, "circuit open")
}

func TestBreakerIgnoresRateLimitFailures(t *testing.T) {
	limited := newFlaky(Failed(models.FailureRateLimited, "slow down"))
	b := WithBreaker(limited, 2, time.Minute)

	// Rate limits never count against the circuit: the failure kind stays
	// rate_limited well past the trip threshold.
	for i := 0; i < 5; i++ {
		res, err := b.SearchFlights(context.Background(), FlightParams{}, SearchContext{})
		require.NoError(t, err)
		require.NotNil(t, res.Failure)
		assert.Equal(t, models.FailureRateLimited, res.Failure.Kind)
	}
}
