package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SchemaHandler returns the database schema
// @Summary      Get database schema
// @Description  Returns the tables, columns and relationships of the demo database as exposed to the SQL generator
// @Tags         Schema
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Schema descriptor"
// @Router       /api/schema [get]
func (h *Handlers) SchemaHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"schema":    h.schema,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
