package models

import "time"

// TaskType identifies a prediction task.
type TaskType string

const (
	TaskPerformance TaskType = "performance"
	TaskAnomaly     TaskType = "anomaly"
	TaskCost        TaskType = "cost"
)

// Valid reports whether the task type is one the engine knows.
func (t TaskType) Valid() bool {
	switch t {
	case TaskPerformance, TaskAnomaly, TaskCost:
		return true
	}
	return false
}

// ResourceType classifies a cloud resource for cost modeling.
type ResourceType string

const (
	ResourceCompute  ResourceType = "compute"
	ResourceDatabase ResourceType = "database"
	ResourceStorage  ResourceType = "storage"
)

// CostTrend labels the direction of a cost projection.
const (
	CostTrendIncreasing = "increasing"
	CostTrendStable     = "stable"
)

// PerformancePrediction is the denormalized output of the performance model.
type PerformancePrediction struct {
	PredictedCPU      float64 `json:"predicted_cpu"`
	PredictedMemory   float64 `json:"predicted_memory"`
	PredictedDisk     float64 `json:"predicted_disk"`
	PredictedNetwork  float64 `json:"predicted_network"`
	Confidence        float64 `json:"confidence"`
	PredictionHorizon string  `json:"prediction_horizon"`
	Error             string  `json:"error,omitempty"`
}

// AnomalyPrediction carries the reconstruction-error anomaly signal for the
// latest observation.
type AnomalyPrediction struct {
	AnomalyScore float64 `json:"anomaly_score"`
	IsAnomaly    bool    `json:"is_anomaly"`
	Threshold    float64 `json:"threshold,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// CostPrediction is a daily/monthly cost projection with an optimization hint.
type CostPrediction struct {
	PredictedDailyCost    float64 `json:"predicted_daily_cost"`
	PredictedMonthlyCost  float64 `json:"predicted_monthly_cost"`
	CostTrend             string  `json:"cost_trend,omitempty"`
	OptimizationPotential float64 `json:"optimization_potential"`
	Error                 string  `json:"error,omitempty"`
}

// PredictionResult is a task-tagged prediction. Exactly one of the task
// payloads is set, matching Task. Scoring failures are carried as data in the
// payload's Error field; callers must check Err before trusting the numbers.
type PredictionResult struct {
	ResourceID  string                 `json:"resource_id"`
	Task        TaskType               `json:"task"`
	Performance *PerformancePrediction `json:"performance,omitempty"`
	Anomaly     *AnomalyPrediction     `json:"anomaly,omitempty"`
	Cost        *CostPrediction        `json:"cost,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Err returns the scoring error message carried by the result, if any.
func (r *PredictionResult) Err() string {
	switch {
	case r.Performance != nil:
		return r.Performance.Error
	case r.Anomaly != nil:
		return r.Anomaly.Error
	case r.Cost != nil:
		return r.Cost.Error
	}
	return ""
}

// PredictionSet groups the latest prediction per task for a twin.
type PredictionSet struct {
	Performance *PerformancePrediction `json:"performance,omitempty"`
	Anomaly     *AnomalyPrediction     `json:"anomaly,omitempty"`
	Cost        *CostPrediction        `json:"cost,omitempty"`
}
