package twin

import (
	"context"
	"time"

	"github.com/OldStager01/cloudguard-ml/internal/events"
	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/internal/metrics"
	"github.com/OldStager01/cloudguard-ml/internal/predictor"
	"github.com/OldStager01/cloudguard-ml/internal/resilience"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// Persister receives read-only twin snapshots plus the raw samples for
// durable storage.
type Persister interface {
	WriteTwinMetrics(ctx context.Context, twin *models.DigitalTwinState, samples models.MetricsWindow) error
}

type OrchestratorConfig struct {
	Store     *Store
	Engine    *predictor.Engine
	Persister Persister
	Publisher *events.Publisher
	Breaker   *resilience.Breaker
}

// Orchestrator drives the twin update cycle: run every prediction task over
// the incoming batch, merge the results into the twin, then hand the snapshot
// off for persistence. The in-memory update is committed before the hand-off,
// so a persistence failure never fails the update.
type Orchestrator struct {
	store     *Store
	engine    *predictor.Engine
	persister Persister
	publisher *events.Publisher
	breaker   *resilience.Breaker
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{Name: "timeseries"})
	}

	return &Orchestrator{
		store:     cfg.Store,
		engine:    cfg.Engine,
		persister: cfg.Persister,
		publisher: cfg.Publisher,
		breaker:   breaker,
	}
}

// CreateTwin registers a twin with the given initial state, replacing any
// existing record for the resource.
func (o *Orchestrator) CreateTwin(resourceID string, initialState map[string]interface{}) *models.DigitalTwinState {
	twin := o.store.Create(resourceID, initialState)
	o.publisher.TwinCreated(twin)
	logger.WithResource(resourceID).Info("Digital twin created")
	return twin
}

// GetTwin returns a snapshot of the twin, if present.
func (o *Orchestrator) GetTwin(resourceID string) (*models.DigitalTwinState, bool) {
	return o.store.Get(resourceID)
}

// ListTwins returns the resource IDs of every registered twin.
func (o *Orchestrator) ListTwins() []string {
	return o.store.ResourceIDs()
}

// Predict runs a single prediction task with instrumentation. Scoring faults
// ride inside the result; only an unknown task yields an error.
func (o *Orchestrator) Predict(resourceID string, window models.MetricsWindow, task models.TaskType) (*models.PredictionResult, error) {
	start := time.Now()

	result, err := o.engine.Predict(resourceID, window, task)
	if err != nil {
		return nil, err
	}

	metrics.PredictionDuration.WithLabelValues(string(task)).Observe(time.Since(start).Seconds())
	metrics.PredictionsTotal.WithLabelValues(string(task)).Inc()
	if result.Err() != "" {
		metrics.PredictionErrorsTotal.WithLabelValues(string(task)).Inc()
	}

	o.publisher.PredictionMade(result)

	if result.Anomaly != nil && result.Anomaly.IsAnomaly {
		metrics.AnomaliesDetectedTotal.Inc()
		o.publisher.AnomalyDetected(resourceID, result.Anomaly)
	}

	return result, nil
}

// UpdateTwin runs all three prediction tasks against the batch, merges the
// results into the twin (auto-provisioning it if absent), and hands the
// snapshot plus samples to the persistence collaborator. Persistence failures
// are logged and swallowed.
func (o *Orchestrator) UpdateTwin(ctx context.Context, resourceID string, window models.MetricsWindow) *models.DigitalTwinState {
	predictions := &models.PredictionSet{}

	for _, task := range []models.TaskType{models.TaskPerformance, models.TaskAnomaly, models.TaskCost} {
		result, err := o.Predict(resourceID, window, task)
		if err != nil {
			// Unreachable for the fixed task list; surface loudly if it ever is.
			logger.WithResource(resourceID).Errorf("Prediction dispatch failed: %v", err)
			continue
		}

		switch task {
		case models.TaskPerformance:
			predictions.Performance = result.Performance
		case models.TaskAnomaly:
			predictions.Anomaly = result.Anomaly
		case models.TaskCost:
			predictions.Cost = result.Cost
		}
	}

	snapshot, created := o.store.Update(resourceID, predictions)
	if created {
		o.publisher.TwinCreated(snapshot)
		logger.WithResource(resourceID).Info("Digital twin auto-provisioned")
	}

	metrics.TwinUpdatesTotal.Inc()
	o.publisher.TwinUpdated(snapshot)

	o.persist(ctx, snapshot, window)

	return snapshot
}

func (o *Orchestrator) persist(ctx context.Context, snapshot *models.DigitalTwinState, window models.MetricsWindow) {
	err := o.breaker.Execute(func() error {
		return o.persister.WriteTwinMetrics(ctx, snapshot, window)
	})
	if err == nil {
		return
	}

	metrics.PersistenceFailuresTotal.Inc()
	o.publisher.PersistenceFailed(snapshot.ResourceID, err)
	logger.WithResource(snapshot.ResourceID).Errorf("Failed to persist twin metrics: %v", err)
}
