package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/waxworks/sidecut/api/albums"
	"github.com/waxworks/sidecut/api/health"
	"github.com/waxworks/sidecut/api/types"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("server dependencies not set")
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	// Boundary analysis decodes entire side recordings; keep it throttled.
	analyzeLimit := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 2)

	albums.RegisterRoutes(v1, deps, analyzeLimit)

	return nil
}
