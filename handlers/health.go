package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"tripscout/providers"
	"tripscout/utils"
)

type providerHealth struct {
	Code    string `json:"code"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
}

// HealthHandler reports engine and dependency health. Backend state comes
// from the background monitor's snapshot; provider adapters are checked
// live and concurrently on each call.
func HealthHandler(registry *providers.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		adapters := registry.All()
		checks := make([]providerHealth, len(adapters))
		var wg sync.WaitGroup
		for i, a := range adapters {
			wg.Add(1)
			go func(i int, a providers.Adapter) {
				defer wg.Done()
				status := a.HealthCheck(ctx)
				checks[i] = providerHealth{
					Code:    a.Code(),
					Healthy: status.Healthy,
					Latency: status.ResponseTime.String(),
				}
			}(i, a)
		}
		wg.Wait()

		backends := utils.GetBackendHealth()
		healthy := backends.Mongo && backends.Cache && backends.Sessions
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":    statusWord(healthy),
			"backends":  backends,
			"providers": checks,
		})
	}
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}
