package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/sse"
)

type EventsHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewEventsHandler(log *logger.Logger, hub *sse.Hub) *EventsHandler {
	return &EventsHandler{log: log.With("handler", "EventsHandler"), hub: hub}
}

// GET /api/projects/:id/events
//
// Long-lived SSE subscription carrying the project's job-status events
// (scrape lifecycle, market analysis ready, PRD updates).
func (h *EventsHandler) Stream(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}

	client := h.hub.NewClient()
	h.hub.AddChannel(client, sse.ProjectChannel(projectID))
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
