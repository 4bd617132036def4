package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// EventBridge forwards internal events to WebSocket clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

// WebSocketEvent is the message format sent to WebSocket clients.
type WebSocketEvent struct {
	Type       string      `json:"type"`
	ResourceID string      `json:"resource_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Severity   string      `json:"severity,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	wsType := mapEventType(event.Type)
	if wsType == "" {
		return // Skip events we don't want to broadcast
	}

	wsMessage := &WebSocketEvent{
		Type:       wsType,
		ResourceID: event.ResourceID,
		Timestamp:  event.Timestamp,
		Severity:   string(event.Severity),
		Message:    event.Message,
		Data:       event.Data,
	}

	data, err := json.Marshal(wsMessage)
	if err != nil {
		logger.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	if event.ResourceID == "" {
		b.hub.Broadcast(data)
		return
	}
	b.hub.BroadcastToResource(event.ResourceID, data)
}

func mapEventType(eventType models.EventType) string {
	switch eventType {
	case models.EventTypeTwinUpdated:
		return "twin_update"
	case models.EventTypeAnomalyDetected:
		return "anomaly"
	case models.EventTypePredictionMade:
		return "prediction"
	case models.EventTypeRetrainComplete:
		return "retrain_complete"
	case models.EventTypeError:
		return "error"
	default:
		// Skip twin_created, persistence and other internal events
		return ""
	}
}
