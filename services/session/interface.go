package session

import (
	"context"

	"tripscout/models"
)

// Service defines the interface for managing resumable search sessions.
// Updates to one token are serialized relative to each other; updates to
// different tokens are fully independent.
type Service interface {
	// Create allocates an opaque token and stores the full session record.
	Create(ctx context.Context, query models.EnrichedQuery, status models.SessionStatus, resultSets map[models.Category]*models.CategoryResultSet) (*models.SearchSession, error)
	// Get returns the current record, or ErrSessionNotFound for an unknown
	// or expired token.
	Get(ctx context.Context, token string) (*models.SearchSession, error)
	// Update applies mutate to the stored record under the token's lock and
	// writes the result back, refreshing the TTL.
	Update(ctx context.Context, token string, mutate func(*models.SearchSession) error) (*models.SearchSession, error)
	// Delete removes the session record.
	Delete(ctx context.Context, token string) error
}
