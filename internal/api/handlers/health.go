package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

type HealthHandler struct {
	db       *database.DB
	cache    *services.CacheService
	breakers *services.CircuitBreakerService
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, breakers *services.CircuitBreakerService) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, breakers: breakers}
}

// GetHealth reports database reachability, cache state and feed breakers.
// Only a database failure makes it unhealthy.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":   "ok",
		"time":     time.Now().UTC(),
		"database": "ok",
		"cache":    "disabled",
	}

	if err := h.db.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}

	if h.cache.Enabled() {
		body["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			body["cache"] = "unreachable"
		}
	}

	if h.breakers != nil {
		body["feeds"] = h.breakers.States()
	}

	c.JSON(status, body)
}
