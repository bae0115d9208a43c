package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const probeCacheKey = "health"

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health of the database and the SQL generation service. Probe results are cached briefly.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	if cached, ok := h.probeCache.Get(probeCacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	status := gin.H{
		"status":     "healthy",
		"db":         "connected",
		"ai_service": "not_configured",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.dbPinger.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("database health probe failed")
		status["status"] = "degraded"
		status["db"] = "unreachable"
	}

	if h.genPinger != nil {
		status["ai_service"] = "ready"
		if err := h.genPinger.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("generation service health probe failed")
			status["status"] = "degraded"
			status["ai_service"] = "unreachable"
		}
	}

	h.probeCache.SetDefault(probeCacheKey, status)
	c.JSON(http.StatusOK, status)
}
