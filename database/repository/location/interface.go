package locationRepo

import (
	"context"
	"errors"

	"tripscout/models"
)

// ErrLocationNotFound is returned when no location matches the lookup.
// Callers must branch on it explicitly; a miss is not an empty result.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository is the read-only location-intelligence lookup consumed
// by the destination resolver and the autocomplete action.
type LocationRepository interface {
	// GetByCode resolves a canonical location code, e.g. "JFK" or "NYC".
	GetByCode(ctx context.Context, code string) (*models.ResolvedLocation, error)
	// SearchByName fuzzy-matches free text against names and aliases,
	// best matches first.
	SearchByName(ctx context.Context, name string, limit int) ([]models.ResolvedLocation, error)
	// Autocomplete returns prefix matches ordered by popularity.
	Autocomplete(ctx context.Context, prefix string, limit int) ([]models.ResolvedLocation, error)
}
