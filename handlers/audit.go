package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AuditHandler lists recent query audit records
// @Summary      List recent audit records
// @Description  Returns the most recent chat turns with their generated SQL and outcome, newest first
// @Tags         Audit
// @Produce      json
// @Param        limit  query     int  false  "Maximum records to return (default 50)"
// @Success      200    {object}  map[string]interface{}  "Audit records"
// @Failure      503    {object}  map[string]string       "Audit trail not configured"
// @Router       /api/audit [get]
func (h *Handlers) AuditHandler(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audit trail is not configured"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := h.audit.Recent(limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read audit records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audit records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}
