package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/gemini"
	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

type chatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ProjectID    string `json:"projectId"`
	CurrentStage int    `json:"currentStage"`
}

// POST /api/chat
//
// Streams normalized chunks terminated by [DONE]. Failures before the
// stream starts return {"error": "..."} JSON; once streaming has begun
// the response is committed and errors can only end the stream early.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages required"})
		return
	}

	turn := services.TurnRequest{
		ProjectID: projectID,
		Stage:     req.CurrentStage,
	}
	for _, m := range req.Messages {
		turn.Messages = append(turn.Messages, gemini.Message{Role: m.Role, Content: m.Content})
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := c.Writer.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	result, err := h.chat.StreamTurn(c.Request.Context(), turn, c.Writer, flush)
	if err != nil {
		if c.Writer.Written() {
			// Stream already committed; nothing more to send.
			h.log.Warn("Chat stream failed mid-flight", "projectID", projectID, "error", err)
			return
		}
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		if errors.Is(err, services.ErrTurnInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		status := http.StatusInternalServerError
		if gemini.IsRateLimited(err) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if result != nil {
		h.log.Debug("Chat turn completed",
			"projectID", projectID,
			"extracted", result.Extracted,
			"ready", result.Ready,
		)
	}
}
