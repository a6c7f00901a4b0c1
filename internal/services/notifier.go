package services

import (
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/sse"
)

// Notifier pushes project-scoped workflow events to subscribed clients.
// The UI uses these instead of polling job status.
type Notifier interface {
	ScrapeStatusChanged(projectID, productID uuid.UUID, status string)
	MarketAnalysisReady(projectID uuid.UUID)
	PrdUpdated(projectID uuid.UUID, ready bool)
	StageAdvanced(projectID uuid.UUID, stage int)
}

type hubNotifier struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewNotifier(log *logger.Logger, hub *sse.Hub) Notifier {
	return &hubNotifier{log: log.With("service", "Notifier"), hub: hub}
}

func (n *hubNotifier) ScrapeStatusChanged(projectID, productID uuid.UUID, status string) {
	n.hub.Broadcast(sse.Message{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.EventScrapeStatusChanged,
		Data: map[string]any{
			"product_id": productID,
			"status":     status,
		},
	})
}

func (n *hubNotifier) MarketAnalysisReady(projectID uuid.UUID) {
	n.hub.Broadcast(sse.Message{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.EventMarketAnalysisReady,
		Data:    map[string]any{"project_id": projectID},
	})
}

func (n *hubNotifier) PrdUpdated(projectID uuid.UUID, ready bool) {
	n.hub.Broadcast(sse.Message{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.EventPrdUpdated,
		Data: map[string]any{
			"project_id": projectID,
			"ready":      ready,
		},
	})
}

func (n *hubNotifier) StageAdvanced(projectID uuid.UUID, stage int) {
	n.hub.Broadcast(sse.Message{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.EventStageAdvanced,
		Data: map[string]any{
			"project_id": projectID,
			"stage":      stage,
		},
	})
}
