package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// Asker answers a free-text question about the shop.
type Asker interface {
	Ask(ctx context.Context, message string) (string, error)
}

type AssistantHandler struct {
	agent Asker
	log   *zap.Logger
}

// NewAssistantHandler accepts a nil agent; requests are then answered 503.
func NewAssistantHandler(agent Asker, log *zap.Logger) *AssistantHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssistantHandler{agent: agent, log: log}
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	// 1. The assistant only runs when an API key was configured
	if h.agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	// 2. Run the agent
	reply, err := h.agent.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error("Assistant failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant failed to answer"})
		return
	}

	// 3. Return the answer
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
