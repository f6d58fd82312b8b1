package userprefsRepo

import (
	"context"
	"errors"

	"tripscout/models"
)

// ErrPreferencesNotFound is returned when no profile exists for the user.
var ErrPreferencesNotFound = errors.New("user preferences not found")

// PreferenceRepository is the read-only user-preference/history store
// consulted by the intent enricher and the personalization subscore.
type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)
}
