package search

import (
	"context"
	"testing"
	"time"

	userprefsRepo "tripscout/database/repository/userprefs"
	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePrefsRepo struct {
	prefs map[string]*models.UserPreferences
}

func (f *fakePrefsRepo) GetByUserID(_ context.Context, userID string) (*models.UserPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return nil, userprefsRepo.ErrPreferencesNotFound
}

var enricherNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testEnricher(prefs map[string]*models.UserPreferences) *IntentEnricher {
	return &IntentEnricher{
		Preferences: &fakePrefsRepo{prefs: prefs},
		Logger:      zap.NewNop(),
		Now:         func() time.Time { return enricherNow },
	}
}

func queryStarting(daysOut int) models.SearchQuery {
	return models.SearchQuery{
		Mode:       models.ModeStays,
		Categories: []models.Category{models.CategoryHotel},
		Dates:      models.DateQuery{Mode: models.DateExact, StartDate: enricherNow.AddDate(0, 0, daysOut)},
		Travelers:  models.Travelers{Adults: 1},
	}
}

var testDest = models.ResolvedLocation{Code: "PAR", DisplayName: "Paris", Type: models.LocationCity}

func TestIntentNearDatesReadAsBooking(t *testing.T) {
	eq, prefs := testEnricher(nil).Enrich(context.Background(), queryStarting(5), nil, testDest)
	assert.Nil(t, prefs)
	assert.Equal(t, models.IntentBook, eq.Intent.Primary)
	assert.Greater(t, eq.Intent.Confidence, 0.0)
}

func TestIntentDistantDatesReadAsPlanning(t *testing.T) {
	eq, _ := testEnricher(nil).Enrich(context.Background(), queryStarting(120), nil, testDest)
	assert.Equal(t, models.IntentPlan, eq.Intent.Primary)
}

func TestIntentFlexibleDatesBiasExplore(t *testing.T) {
	q := queryStarting(120)
	q.Dates.Mode = models.DateFlexible
	q.Categories = []models.Category{models.CategoryHotel, models.CategoryCar, models.CategoryExperience}

	eq, _ := testEnricher(nil).Enrich(context.Background(), q, nil, testDest)
	// explore 1.5 (date mode) + 1.0 (category mix) beats plan 1.5 (dates).
	assert.Equal(t, models.IntentExplore, eq.Intent.Primary)
}

func TestIntentRefinementReadsAsComparing(t *testing.T) {
	q := queryStarting(30)
	q.SortBy = "price_asc"

	eq, _ := testEnricher(nil).Enrich(context.Background(), q, nil, testDest)
	// compare 1.0 (dates) + 1.5 (refinement).
	assert.Equal(t, models.IntentCompare, eq.Intent.Primary)
}

func TestIntentRepeatDestinationSignalsBooking(t *testing.T) {
	prefs := map[string]*models.UserPreferences{
		"u1": {UserID: "u1", RecentDestinations: []string{"PAR", "ROM"}},
	}
	q := queryStarting(30)
	q.UserID = "u1"

	eq, loaded := testEnricher(prefs).Enrich(context.Background(), q, nil, testDest)
	require.NotNil(t, loaded)
	assert.Equal(t, models.IntentBook, eq.Intent.Primary)
}

func TestIntentClassificationDeterministic(t *testing.T) {
	q := queryStarting(30)
	first, _ := testEnricher(nil).Enrich(context.Background(), q, nil, testDest)
	second, _ := testEnricher(nil).Enrich(context.Background(), q, nil, testDest)
	assert.Equal(t, first.Intent, second.Intent)
}

func TestIntentMissingProfileDegradesGracefully(t *testing.T) {
	q := queryStarting(5)
	q.UserID = "unknown-user"

	eq, prefs := testEnricher(nil).Enrich(context.Background(), q, nil, testDest)
	assert.Nil(t, prefs)
	assert.Equal(t, models.IntentBook, eq.Intent.Primary)
}

func TestClassifyEmptySignals(t *testing.T) {
	intent := classify(nil)
	assert.Equal(t, models.IntentExplore, intent.Primary)
	assert.Zero(t, intent.Confidence)
}
