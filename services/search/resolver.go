package search

import (
	"context"
	"errors"
	"strings"

	locationRepo "tripscout/database/repository/location"
	"tripscout/models"

	"go.uber.org/zap"
)

// DestinationResolver maps free text or codes to a canonical location entity.
type DestinationResolver struct {
	Locations locationRepo.LocationRepository
	Logger    *zap.Logger
}

// Resolve looks up a canonical location by code or fuzzy name match. On no
// match it degrades gracefully by fabricating a minimal ResolvedLocation from
// the raw text (flagged Approximate) rather than failing the search.
func (r *DestinationResolver) Resolve(ctx context.Context, in models.LocationQuery) (models.ResolvedLocation, error) {
	if code := strings.TrimSpace(in.Code); code != "" {
		loc, err := r.Locations.GetByCode(ctx, code)
		if err == nil {
			return *loc, nil
		}
		if !errors.Is(err, locationRepo.ErrLocationNotFound) {
			return models.ResolvedLocation{}, err
		}
		// Unknown code: fall through to a name match on the raw text, then
		// to fabrication.
	}

	raw := strings.TrimSpace(in.Query)
	if raw == "" {
		raw = strings.TrimSpace(in.Code)
	}
	if raw == "" {
		return models.ResolvedLocation{}, ResolutionError{Input: ""}
	}

	matches, err := r.Locations.SearchByName(ctx, raw, 1)
	if err == nil && len(matches) > 0 {
		return matches[0], nil
	}
	if err != nil && !errors.Is(err, locationRepo.ErrLocationNotFound) {
		return models.ResolvedLocation{}, err
	}

	r.Logger.Info("destination unresolved, fabricating approximate location",
		zap.String("input", raw))
	return fabricate(raw), nil
}

// fabricate builds a minimal approximate location from raw text.
func fabricate(raw string) models.ResolvedLocation {
	code := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	if len(code) > 8 {
		code = code[:8]
	}
	return models.ResolvedLocation{
		Code:        code,
		DisplayName: raw,
		Type:        models.LocationCity,
		Approximate: true,
	}
}
