package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"datachat/models"
)

// ChatHandler answers a natural language question about the demo database
// @Summary      Ask a question about the data
// @Description  Converts a natural language question into a SQL SELECT, validates it, runs it against the read-only database and returns the rows
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest   true  "Question to answer"
// @Success      200      {object}  models.ChatResponse  "Answer with generated SQL and rows, or a user-facing error"
// @Failure      400      {object}  map[string]string    "Invalid request"
// @Router       /api/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	response := h.chat.Ask(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, response)
}
