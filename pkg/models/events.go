package models

import "time"

type EventType string

const (
	EventTypeTwinCreated       EventType = "twin_created"
	EventTypeTwinUpdated       EventType = "twin_updated"
	EventTypePredictionMade    EventType = "prediction_made"
	EventTypeAnomalyDetected   EventType = "anomaly_detected"
	EventTypePersistenceFailed EventType = "persistence_failed"
	EventTypeRetrainStarted    EventType = "retrain_started"
	EventTypeRetrainComplete   EventType = "retrain_complete"
	EventTypeError             EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	Severity   EventSeverity `json:"severity"`
	ResourceID string        `json:"resource_id,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Message    string        `json:"message"`
	Data       interface{}   `json:"data,omitempty"`
	TraceID    string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, resourceID, message string) *Event {
	return &Event{
		ID:         NewUUID(),
		Type:       eventType,
		Severity:   SeverityInfo,
		ResourceID: resourceID,
		Timestamp:  time.Now(),
		Message:    message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}
