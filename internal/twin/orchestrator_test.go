package twin_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cloudguard-ml/internal/events"
	"github.com/OldStager01/cloudguard-ml/internal/predictor"
	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

type fakePersister struct {
	mu    sync.Mutex
	err   error
	calls []persistCall
}

type persistCall struct {
	resourceID string
	samples    int
}

func (f *fakePersister) WriteTwinMetrics(ctx context.Context, snapshot *models.DigitalTwinState, samples models.MetricsWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, persistCall{resourceID: snapshot.ResourceID, samples: len(samples)})
	return f.err
}

func (f *fakePersister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestOrchestrator(t *testing.T, persister twin.Persister) (*twin.Orchestrator, *events.EventBus) {
	t.Helper()

	bus := events.NewEventBus(64)
	t.Cleanup(bus.Close)

	orch := twin.NewOrchestrator(twin.OrchestratorConfig{
		Store:     twin.NewStore(twin.StoreConfig{}),
		Engine:    predictor.New(config.PredictorConfig{Seed: 42}),
		Persister: persister,
		Publisher: events.NewPublisher(bus),
	})
	return orch, bus
}

func metricsWindow(n int, cpu float64) models.MetricsWindow {
	window := make(models.MetricsWindow, 0, n)
	for i := 0; i < n; i++ {
		window = append(window, models.MetricSample{CPU: cpu, Memory: 60, Disk: 40, Network: 20})
	}
	return window
}

func TestOrchestrator_UpdateTwin_RunsAllTasks(t *testing.T) {
	persister := &fakePersister{}
	orch, _ := newTestOrchestrator(t, persister)

	snapshot := orch.UpdateTwin(context.Background(), "r1", metricsWindow(3, 80))

	require.NotNil(t, snapshot)
	require.NotNil(t, snapshot.Predictions)
	assert.NotNil(t, snapshot.Predictions.Performance)
	assert.NotNil(t, snapshot.Predictions.Anomaly)
	assert.NotNil(t, snapshot.Predictions.Cost)

	// Mean CPU of 80 projects an increasing cost trend.
	assert.Equal(t, models.CostTrendIncreasing, snapshot.Predictions.Cost.CostTrend)

	require.Equal(t, 1, persister.callCount())
	assert.Equal(t, "r1", persister.calls[0].resourceID)
	assert.Equal(t, 3, persister.calls[0].samples)
}

func TestOrchestrator_UpdateTwin_AutoProvisions(t *testing.T) {
	orch, bus := newTestOrchestrator(t, &fakePersister{})
	created := bus.Subscribe(models.EventTypeTwinCreated)

	snapshot := orch.UpdateTwin(context.Background(), "fresh", metricsWindow(2, 50))

	assert.Equal(t, "active", snapshot.State["status"])

	select {
	case event := <-created:
		assert.Equal(t, "fresh", event.ResourceID)
	default:
		t.Fatal("expected a twin_created event for the auto-provisioned twin")
	}
}

func TestOrchestrator_UpdateTwin_PersistenceFailureIsSwallowed(t *testing.T) {
	persister := &fakePersister{err: errors.New("influx down")}
	orch, bus := newTestOrchestrator(t, persister)
	failures := bus.Subscribe(models.EventTypePersistenceFailed)

	snapshot := orch.UpdateTwin(context.Background(), "r1", metricsWindow(2, 50))

	// The in-memory update commits regardless of the persistence outcome.
	require.NotNil(t, snapshot)
	assert.NotNil(t, snapshot.Predictions)

	got, ok := orch.GetTwin("r1")
	require.True(t, ok)
	assert.NotNil(t, got.Predictions)

	select {
	case event := <-failures:
		assert.Equal(t, "r1", event.ResourceID)
	default:
		t.Fatal("expected a persistence_failed event")
	}
}

func TestOrchestrator_Predict_PublishesAnomalyEvents(t *testing.T) {
	orch, bus := newTestOrchestrator(t, &fakePersister{})
	anomalies := bus.Subscribe(models.EventTypeAnomalyDetected)

	result, err := orch.Predict("r1", metricsWindow(1, 99), models.TaskAnomaly)
	require.NoError(t, err)
	require.NotNil(t, result.Anomaly)

	if !result.Anomaly.IsAnomaly {
		t.Skip("scored below the anomaly threshold for this seed")
	}

	select {
	case event := <-anomalies:
		assert.Equal(t, "r1", event.ResourceID)
		assert.Equal(t, models.SeverityWarning, event.Severity)
	default:
		t.Fatal("expected an anomaly_detected event")
	}
}

func TestOrchestrator_Predict_InvalidTask(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &fakePersister{})

	result, err := orch.Predict("r1", metricsWindow(1, 50), models.TaskType("bogus"))

	assert.ErrorIs(t, err, predictor.ErrInvalidTask)
	assert.Nil(t, result)
}

func TestOrchestrator_CreateAndGet(t *testing.T) {
	orch, bus := newTestOrchestrator(t, &fakePersister{})
	created := bus.Subscribe(models.EventTypeTwinCreated)

	snapshot := orch.CreateTwin("r1", map[string]interface{}{"env": "prod"})
	assert.Equal(t, "prod", snapshot.State["env"])

	got, ok := orch.GetTwin("r1")
	require.True(t, ok)
	assert.Equal(t, snapshot.ResourceID, got.ResourceID)

	select {
	case event := <-created:
		assert.Equal(t, "r1", event.ResourceID)
	default:
		t.Fatal("expected a twin_created event")
	}
}
