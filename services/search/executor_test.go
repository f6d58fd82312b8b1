package search

import (
	"context"
	"testing"
	"time"

	"tripscout/models"
	"tripscout/providers"
	"tripscout/providers/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func executorQuery() models.EnrichedQuery {
	return models.EnrichedQuery{
		SearchQuery: models.SearchQuery{
			Mode:       models.ModeStays,
			Categories: []models.Category{models.CategoryHotel},
			Dates: models.DateQuery{
				Mode:      models.DateExact,
				StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
			},
			Travelers: models.Travelers{Adults: 2},
			Rooms:     1,
			Currency:  "USD",
			Paging:    models.Paging{Page: 1, PageSize: 20},
		},
		ResolvedDestination: models.ResolvedLocation{
			Code:        "PAR",
			DisplayName: "Paris",
			Type:        models.LocationCity,
			Coordinates: models.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
		},
	}
}

func newExecutor(t *testing.T, adapters ...providers.Adapter) *Executor {
	t.Helper()
	reg, err := providers.NewRegistry(nil, adapters...)
	require.NoError(t, err)
	return &Executor{
		Registry: reg,
		Config: PlannerConfig{
			CallTimeout:  300 * time.Millisecond,
			PhaseTimeout: time.Second,
			PlanTimeout:  2 * time.Second,
		},
		Logger: zap.NewNop(),
	}
}

func hotelPhase(minResults int, waitForAll bool, codes ...string) models.ExecutionPlan {
	return models.ExecutionPlan{
		Strategy: models.StrategyParallel,
		Timeout:  2 * time.Second,
		Phases: []models.ExecutionPhase{{
			Category:   models.CategoryHotel,
			Providers:  codes,
			Timeout:    time.Second,
			WaitForAll: waitForAll,
			MinResults: minResults,
		}},
	}
}

func TestExecutePartialFailure(t *testing.T) {
	healthy := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	broken := fixture.New("roomrate", "RoomRate", models.CategoryHotel)
	broken.FailWith = &models.ProviderFailure{Kind: models.FailureUpstream, Message: "503 from upstream"}

	e := newExecutor(t, healthy, broken)
	// A high threshold forces the phase to wait for both answers.
	outcomes := e.Execute(context.Background(), hotelPhase(1000, false, "stayhub", "roomrate"), executorQuery())

	require.Len(t, outcomes, 2)
	byCode := make(map[string]models.ExecutionResult, len(outcomes))
	for _, o := range outcomes {
		byCode[o.ProviderCode] = o
	}

	ok := byCode["stayhub"]
	assert.True(t, ok.Success)
	assert.NotEmpty(t, ok.Results)

	failed := byCode["roomrate"]
	assert.False(t, failed.Success)
	require.NotNil(t, failed.Failure)
	assert.Equal(t, models.FailureUpstream, failed.Failure.Kind)
	assert.Empty(t, failed.Results)
}

func TestExecuteSlowProviderTimesOut(t *testing.T) {
	fast := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	slow := fixture.New("roomrate", "RoomRate", models.CategoryHotel)
	slow.Latency = 5 * time.Second

	e := newExecutor(t, fast, slow)
	outcomes := e.Execute(context.Background(), hotelPhase(1000, false, "stayhub", "roomrate"), executorQuery())

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		switch o.ProviderCode {
		case "stayhub":
			assert.True(t, o.Success)
		case "roomrate":
			assert.False(t, o.Success)
			require.NotNil(t, o.Failure)
			assert.Equal(t, models.FailureTimeout, o.Failure.Kind)
		}
	}
}

func TestExecuteAllProvidersFail(t *testing.T) {
	a := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	a.FailWith = &models.ProviderFailure{Kind: models.FailureUpstream, Message: "down"}
	b := fixture.New("roomrate", "RoomRate", models.CategoryHotel)
	b.FailWith = &models.ProviderFailure{Kind: models.FailureUnavailable, Message: "maintenance"}

	e := newExecutor(t, a, b)
	outcomes := e.Execute(context.Background(), hotelPhase(1000, false, "stayhub", "roomrate"), executorQuery())

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.False(t, o.Success)
		assert.NotNil(t, o.Failure)
	}
}

func TestExecuteEarlyReturnAtThreshold(t *testing.T) {
	fast := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	slow := fixture.New("roomrate", "RoomRate", models.CategoryHotel)
	slow.Latency = 10 * time.Second

	e := newExecutor(t, fast, slow)
	started := time.Now()
	// The fast provider's 8 offers satisfy the threshold of 5; the slow one
	// is abandoned instead of awaited.
	outcomes := e.Execute(context.Background(), hotelPhase(5, false, "stayhub", "roomrate"), executorQuery())
	elapsed := time.Since(started)

	assert.Less(t, elapsed, 900*time.Millisecond, "threshold met must short-circuit the phase")
	require.Len(t, outcomes, 2)
	byCode := make(map[string]models.ExecutionResult, len(outcomes))
	for _, o := range outcomes {
		byCode[o.ProviderCode] = o
	}
	assert.True(t, byCode["stayhub"].Success)

	abandoned := byCode["roomrate"]
	assert.False(t, abandoned.Success)
	require.NotNil(t, abandoned.Failure)
	assert.Equal(t, models.FailureAbandoned, abandoned.Failure.Kind)
}

func TestExecuteUnregisteredProviderRecordedAsUnavailable(t *testing.T) {
	fast := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	e := newExecutor(t, fast)

	outcomes := e.Execute(context.Background(), hotelPhase(1000, false, "stayhub", "ghost"), executorQuery())
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		if o.ProviderCode == "ghost" {
			require.NotNil(t, o.Failure)
			assert.Equal(t, models.FailureUnavailable, o.Failure.Kind)
		}
	}
}

func TestExecuteWaitForAllCollectsEveryAnswer(t *testing.T) {
	a := fixture.New("stayhub", "StayHub", models.CategoryHotel)
	b := fixture.New("roomrate", "RoomRate", models.CategoryHotel)
	b.Latency = 100 * time.Millisecond

	e := newExecutor(t, a, b)
	outcomes := e.Execute(context.Background(), hotelPhase(1, true, "stayhub", "roomrate"), executorQuery())

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Success, "provider %s", o.ProviderCode)
	}
}
