package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackendHealth is the latest observed state of the storage backends.
type BackendHealth struct {
	Mongo     bool      `json:"mongo"`
	Cache     bool      `json:"cache"`
	Sessions  bool      `json:"sessions"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth BackendHealth
	healthMu      sync.RWMutex
)

// GetBackendHealth returns the latest stored health snapshot.
func GetBackendHealth() BackendHealth {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings the backends once immediately and then every
// minute, updating the in-memory snapshot served by the health endpoint.
func StartHealthMonitor(cacheClient, sessionClient *redis.Client, mongoClient *mongo.Client) {
	check := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status := BackendHealth{
			Mongo:     mongoClient.Ping(ctx, nil) == nil,
			Cache:     cacheClient.Ping(ctx).Err() == nil,
			Sessions:  sessionClient.Ping(ctx).Err() == nil,
			CheckedAt: time.Now().UTC(),
		}

		healthMu.Lock()
		currentHealth = status
		healthMu.Unlock()
	}

	check()
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			check()
		}
	}()
}
