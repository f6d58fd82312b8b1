package search

import (
	"context"
	"testing"

	locationRepo "tripscout/database/repository/location"
	"tripscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLocationRepo struct {
	byCode map[string]models.ResolvedLocation
	byName map[string]models.ResolvedLocation
}

func (f *fakeLocationRepo) GetByCode(_ context.Context, code string) (*models.ResolvedLocation, error) {
	if loc, ok := f.byCode[code]; ok {
		return &loc, nil
	}
	return nil, locationRepo.ErrLocationNotFound
}

func (f *fakeLocationRepo) SearchByName(_ context.Context, name string, _ int) ([]models.ResolvedLocation, error) {
	if loc, ok := f.byName[name]; ok {
		return []models.ResolvedLocation{loc}, nil
	}
	return nil, nil
}

func (f *fakeLocationRepo) Autocomplete(_ context.Context, prefix string, _ int) ([]models.ResolvedLocation, error) {
	if loc, ok := f.byName[prefix]; ok {
		return []models.ResolvedLocation{loc}, nil
	}
	return nil, nil
}

func testResolver() *DestinationResolver {
	paris := models.ResolvedLocation{Code: "PAR", DisplayName: "Paris", Type: models.LocationCity}
	return &DestinationResolver{
		Locations: &fakeLocationRepo{
			byCode: map[string]models.ResolvedLocation{"PAR": paris},
			byName: map[string]models.ResolvedLocation{"paris": paris},
		},
		Logger: zap.NewNop(),
	}
}

func TestResolveByCode(t *testing.T) {
	loc, err := testResolver().Resolve(context.Background(), models.LocationQuery{Code: "PAR"})
	require.NoError(t, err)
	assert.Equal(t, "PAR", loc.Code)
	assert.False(t, loc.Approximate)
}

func TestResolveByName(t *testing.T) {
	loc, err := testResolver().Resolve(context.Background(), models.LocationQuery{Query: "paris"})
	require.NoError(t, err)
	assert.Equal(t, "PAR", loc.Code)
	assert.False(t, loc.Approximate)
}

func TestResolveFabricatesOnMiss(t *testing.T) {
	loc, err := testResolver().Resolve(context.Background(), models.LocationQuery{Query: "Lake Nowhere"})
	require.NoError(t, err)
	assert.True(t, loc.Approximate)
	assert.Equal(t, "LAKENOWH", loc.Code)
	assert.Equal(t, "Lake Nowhere", loc.DisplayName)
	assert.Equal(t, models.LocationCity, loc.Type)
}

func TestResolveUnknownCodeFallsBackToFabrication(t *testing.T) {
	loc, err := testResolver().Resolve(context.Background(), models.LocationQuery{Code: "ZZZ"})
	require.NoError(t, err)
	assert.True(t, loc.Approximate)
	assert.Equal(t, "ZZZ", loc.Code)
}

func TestResolveEmptyInput(t *testing.T) {
	_, err := testResolver().Resolve(context.Background(), models.LocationQuery{})
	require.Error(t, err)
	var rErr ResolutionError
	assert.ErrorAs(t, err, &rErr)
}
