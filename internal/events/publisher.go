package events

import (
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) TwinCreated(twin *models.DigitalTwinState) {
	event := models.NewEvent(models.EventTypeTwinCreated, twin.ResourceID, "Digital twin created").
		WithData(twin)
	p.publish(event)
}

func (p *Publisher) TwinUpdated(twin *models.DigitalTwinState) {
	event := models.NewEvent(models.EventTypeTwinUpdated, twin.ResourceID, "Digital twin updated").
		WithData(twin)
	p.publish(event)
}

func (p *Publisher) PredictionMade(result *models.PredictionResult) {
	msg := "Prediction made: " + string(result.Task)
	event := models.NewEvent(models.EventTypePredictionMade, result.ResourceID, msg).
		WithData(result)

	if result.Err() != "" {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) AnomalyDetected(resourceID string, anomaly *models.AnomalyPrediction) {
	event := models.NewEvent(models.EventTypeAnomalyDetected, resourceID, "Anomaly detected").
		WithSeverity(models.SeverityWarning).
		WithData(anomaly)
	p.publish(event)
}

func (p *Publisher) PersistenceFailed(resourceID string, err error) {
	event := models.NewEvent(models.EventTypePersistenceFailed, resourceID, "Twin persistence failed").
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) RetrainStarted() {
	event := models.NewEvent(models.EventTypeRetrainStarted, "", "Model retraining started")
	p.publish(event)
}

func (p *Publisher) RetrainComplete(paramsVersion string, sampleCount int64) {
	event := models.NewEvent(models.EventTypeRetrainComplete, "", "Model retraining complete").
		WithData(map[string]interface{}{
			"params_version": paramsVersion,
			"sample_count":   sampleCount,
		})
	p.publish(event)
}

func (p *Publisher) Error(resourceID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, resourceID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
