package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(baseLog *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:  baseLog.With("handler", "ChatHandler"),
		chat: chat,
	}
}

// POST /api/projects/:id/chat
func (h *ChatHandler) Send(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reply, err := h.chat.HandleMessage(c.Request.Context(), id, req.Message)
	if err != nil {
		RespondSentinel(c, "chat_failed", err)
		return
	}
	RespondOK(c, reply)
}

// GET /api/projects/:id/chat
func (h *ChatHandler) History(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	msgs, err := h.chat.History(c.Request.Context(), id, req.Limit)
	if err != nil {
		RespondSentinel(c, "chat_history_failed", err)
		return
	}
	RespondOK(c, gin.H{"messages": msgs})
}
