// File: tripscout/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	SearchHandler gin.HandlerFunc
	HealthHandler gin.HandlerFunc
}
