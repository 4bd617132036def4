package predictor

import (
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/OldStager01/cloudguard-ml/internal/features"
	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// ErrInvalidTask indicates an unknown prediction task identifier. The API
// boundary maps it to a 400 response.
var ErrInvalidTask = errors.New("invalid prediction task")

const predictionHorizon = "1 hour"

// Engine orchestrates feature preparation, scoring, and post-processing for
// all prediction tasks. It keeps no per-request state and is safe for
// concurrent use; model parameters are swapped atomically by retraining.
type Engine struct {
	cfg    config.PredictorConfig
	params atomic.Pointer[Params]
}

func New(cfg config.PredictorConfig) *Engine {
	if cfg.AnomalyThreshold == 0 {
		cfg.AnomalyThreshold = 0.1
	}
	if cfg.BaseConfidence == 0 {
		cfg.BaseConfidence = 0.85
	}
	if cfg.ConfidenceJitter == 0 {
		cfg.ConfidenceJitter = 0.1
	}
	if cfg.DefaultResourceType == "" {
		cfg.DefaultResourceType = string(models.ResourceCompute)
	}

	e := &Engine{cfg: cfg}
	e.params.Store(NewParams(cfg.Seed))
	return e
}

// SwapParams atomically replaces the scoring parameters. In-flight
// predictions finish against whichever set they started with.
func (e *Engine) SwapParams(p *Params) {
	e.params.Store(p)
	logger.Infof("Scoring parameters swapped to %s", p.Version)
}

func (e *Engine) ParamsVersion() string {
	return e.params.Load().Version
}

// Predict dispatches to the task's preparer/scorer pair and applies the
// task-specific post-processing. Scoring faults are captured in the result's
// error field, never returned as an error.
func (e *Engine) Predict(resourceID string, window models.MetricsWindow, task models.TaskType) (*models.PredictionResult, error) {
	result := &models.PredictionResult{
		ResourceID:  resourceID,
		Task:        task,
		GeneratedAt: time.Now(),
	}

	switch task {
	case models.TaskPerformance:
		result.Performance = e.predictPerformance(window)
	case models.TaskAnomaly:
		result.Anomaly = e.detectAnomalies(window)
	case models.TaskCost:
		result.Cost = e.predictCost(window, models.ResourceType(e.cfg.DefaultResourceType))
	default:
		return nil, ErrInvalidTask
	}

	if msg := result.Err(); msg != "" {
		logger.WithTask(string(task)).WithField("resource_id", resourceID).Errorf("Scoring failed: %s", msg)
	}

	return result, nil
}

func (e *Engine) predictPerformance(window models.MetricsWindow) *models.PerformancePrediction {
	vec := features.Performance(window)

	out, err := forward(e.params.Load().performance, vec)
	if err != nil {
		return &models.PerformancePrediction{Error: err.Error()}
	}

	return &models.PerformancePrediction{
		PredictedCPU:      out[0] * 100,
		PredictedMemory:   out[1] * 100,
		PredictedDisk:     out[2] * 100,
		PredictedNetwork:  out[3] * 100,
		Confidence:        e.cfg.BaseConfidence + rand.Float64()*e.cfg.ConfidenceJitter,
		PredictionHorizon: predictionHorizon,
	}
}

func (e *Engine) detectAnomalies(window models.MetricsWindow) *models.AnomalyPrediction {
	vec, err := features.Anomaly(window)
	if errors.Is(err, features.ErrInsufficientData) {
		// No data means nothing to flag, not a fault.
		return &models.AnomalyPrediction{AnomalyScore: 0.0, IsAnomaly: false}
	}

	reconstruction, err := forward(e.params.Load().anomaly, vec)
	if err != nil {
		return &models.AnomalyPrediction{Error: err.Error()}
	}

	score := reconstructionError(vec, reconstruction)

	return &models.AnomalyPrediction{
		AnomalyScore: score,
		IsAnomaly:    score > e.cfg.AnomalyThreshold,
		Threshold:    e.cfg.AnomalyThreshold,
		Confidence:   0.92,
	}
}

func (e *Engine) predictCost(window models.MetricsWindow, resourceType models.ResourceType) *models.CostPrediction {
	vec, err := features.Cost(window, resourceType)
	if errors.Is(err, features.ErrInsufficientData) {
		// Zero-cost sentinel, no scoring call.
		return &models.CostPrediction{PredictedDailyCost: 0.0}
	}

	out, err := forward(e.params.Load().cost, vec)
	if err != nil {
		return &models.CostPrediction{Error: err.Error()}
	}

	dailyCost := out[0] * 100 // scale to a realistic daily cost unit
	avgCPU := window.Averages().CPU

	return &models.CostPrediction{
		PredictedDailyCost:    dailyCost,
		PredictedMonthlyCost:  dailyCost * 30,
		CostTrend:             costTrend(avgCPU),
		OptimizationPotential: math.Max(0, (100-avgCPU)*0.01*dailyCost),
	}
}

func costTrend(avgCPU float64) string {
	if avgCPU > 70 {
		return models.CostTrendIncreasing
	}
	return models.CostTrendStable
}

// reconstructionError is the mean squared difference between the autoencoder
// input and its reconstruction.
func reconstructionError(input, reconstruction []float64) float64 {
	var sum float64
	for i := range input {
		diff := input[i] - reconstruction[i]
		sum += diff * diff
	}
	return sum / float64(len(input))
}
