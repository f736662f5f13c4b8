package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/internal/pkg/response"
	"github.com/docforge/docforge/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Query string `json:"query"`
}

// Chat always answers with HTTP 200: retrieval failures are folded into
// the answer text by the service.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, "query is required")
		return
	}
	answer := h.chat.Ask(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
