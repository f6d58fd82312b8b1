package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"tripscout/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

// RedisSessionService is the Redis-backed session store. The session record
// is the only shared mutable resource of the engine: writes are serialized
// per token through an in-process keyed mutex, reads of different tokens are
// fully concurrent.
type RedisSessionService struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
	// MaxSnapshots bounds the append-only price history per session.
	MaxSnapshots int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisSessionService builds the store with the configured activity TTL.
func NewRedisSessionService(client *redis.Client, ttl time.Duration, maxSnapshots int, logger *zap.Logger) *RedisSessionService {
	return &RedisSessionService{
		Client:       client,
		TTL:          ttl,
		Logger:       logger,
		MaxSnapshots: maxSnapshots,
		locks:        make(map[string]*sync.Mutex),
	}
}

// tokenLock returns the mutex serializing updates for one token.
func (s *RedisSessionService) tokenLock(token string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[token]
	if !ok {
		l = &sync.Mutex{}
		s.locks[token] = l
	}
	return l
}

func (s *RedisSessionService) Create(ctx context.Context, query models.EnrichedQuery, status models.SessionStatus, resultSets map[models.Category]*models.CategoryResultSet) (*models.SearchSession, error) {
	now := time.Now().UTC()
	sess := &models.SearchSession{
		ID:         uuid.New().String(),
		Token:      uuid.New().String(),
		Query:      query,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
		SearchedAt: now,
		ResultSets: resultSets,
		// Filters and sort selected at search time carry into continuations.
		AppliedFilters: query.Filters,
		SortBy:         query.SortBy,
	}
	appendSnapshots(sess, now, s.MaxSnapshots)

	if err := s.write(ctx, sess); err != nil {
		return nil, err
	}
	s.Logger.Debug("session created", zap.String("token", sess.Token))
	return sess, nil
}

func (s *RedisSessionService) Get(ctx context.Context, token string) (*models.SearchSession, error) {
	data, err := s.Client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", token, err)
	}
	var sess models.SearchSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", token, err)
	}
	return &sess, nil
}

func (s *RedisSessionService) Update(ctx context.Context, token string, mutate func(*models.SearchSession) error) (*models.SearchSession, error) {
	lock := s.tokenLock(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	prevStatus := sess.Status
	prevSearchedAt := sess.SearchedAt
	if err := mutate(sess); err != nil {
		return nil, err
	}
	// Status only moves forward; a mutation attempting to regress keeps the
	// previous status. A mutation that advanced SearchedAt re-ran the
	// providers, so its fresh outcome replaces the stored one.
	if sess.Status != prevStatus && !prevStatus.CanTransitionTo(sess.Status) && !sess.SearchedAt.After(prevSearchedAt) {
		sess.Status = prevStatus
	}
	sess.UpdatedAt = time.Now().UTC()
	trimSnapshots(sess, s.MaxSnapshots)

	if err := s.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisSessionService) Delete(ctx context.Context, token string) error {
	if err := s.Client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", token, err)
	}
	s.mu.Lock()
	delete(s.locks, token)
	s.mu.Unlock()
	return nil
}

func (s *RedisSessionService) write(ctx context.Context, sess *models.SearchSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sess.Token, err)
	}
	if err := s.Client.Set(ctx, keyPrefix+sess.Token, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sess.Token, err)
	}
	return nil
}

// appendSnapshots records one price observation per category holding results.
// Snapshots are append-only and strictly time-ordered.
func appendSnapshots(sess *models.SearchSession, at time.Time, max int) {
	cats := make([]models.Category, 0, len(sess.ResultSets))
	for cat := range sess.ResultSets {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	for _, cat := range cats {
		set := sess.ResultSets[cat]
		if set == nil || len(set.Results) == 0 {
			continue
		}
		// Keep the history strictly time-ordered even when several
		// categories snapshot in the same instant.
		if n := len(sess.PriceHistory); n > 0 && !at.After(sess.PriceHistory[n-1].TakenAt) {
			at = sess.PriceHistory[n-1].TakenAt.Add(time.Millisecond)
		}
		min, sum := set.Results[0].Price.Total, 0.0
		for _, r := range set.Results {
			if r.Price.Total < min {
				min = r.Price.Total
			}
			sum += r.Price.Total
		}
		sess.PriceHistory = append(sess.PriceHistory, models.PriceSnapshot{
			Category: cat,
			MinPrice: min,
			AvgPrice: sum / float64(len(set.Results)),
			TakenAt:  at,
		})
	}
	trimSnapshots(sess, max)
}

// AppendSnapshots is the exported hook used when a continuation refreshes
// provider results.
func AppendSnapshots(sess *models.SearchSession, at time.Time, max int) {
	appendSnapshots(sess, at, max)
}

func trimSnapshots(sess *models.SearchSession, max int) {
	if max > 0 && len(sess.PriceHistory) > max {
		sess.PriceHistory = sess.PriceHistory[len(sess.PriceHistory)-max:]
	}
}
