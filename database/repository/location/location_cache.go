package locationRepo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tripscout/models"

	"github.com/go-redis/redis/v8"
)

// CachedLocationRepo wraps a LocationRepository with a Redis read-through
// cache for code lookups. Name search and autocomplete pass through.
type CachedLocationRepo struct {
	Inner       LocationRepository
	CacheClient *redis.Client
	TTL         time.Duration
}

// NewCachedLocationRepo wraps inner with a Redis read-through cache.
func NewCachedLocationRepo(inner LocationRepository, cache *redis.Client, ttl time.Duration) *CachedLocationRepo {
	return &CachedLocationRepo{Inner: inner, CacheClient: cache, TTL: ttl}
}

func (r *CachedLocationRepo) cacheKey(code string) string {
	return "loc:" + strings.ToUpper(strings.TrimSpace(code))
}

func (r *CachedLocationRepo) GetByCode(ctx context.Context, code string) (*models.ResolvedLocation, error) {
	key := r.cacheKey(code)
	if cached, err := r.CacheClient.Get(ctx, key).Result(); err == nil && cached != "" {
		var loc models.ResolvedLocation
		if err := json.Unmarshal([]byte(cached), &loc); err == nil {
			return &loc, nil
		}
		// If unmarshal fails, fall through to the inner lookup.
	}

	loc, err := r.Inner.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(loc); err == nil {
		r.CacheClient.Set(ctx, key, data, r.TTL)
	}
	return loc, nil
}

func (r *CachedLocationRepo) SearchByName(ctx context.Context, name string, limit int) ([]models.ResolvedLocation, error) {
	return r.Inner.SearchByName(ctx, name, limit)
}

func (r *CachedLocationRepo) Autocomplete(ctx context.Context, prefix string, limit int) ([]models.ResolvedLocation, error) {
	return r.Inner.Autocomplete(ctx, prefix, limit)
}
