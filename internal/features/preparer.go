package features

import (
	"errors"

	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

const (
	// PerformanceWindow is the number of samples the performance model sees.
	PerformanceWindow = 10

	PerformanceWidth = PerformanceWindow * 4
	AnomalyWidth     = 4
	CostWidth        = 8
)

// ErrInsufficientData indicates there are no samples to vectorize.
var ErrInsufficientData = errors.New("insufficient metric data")

// Vector is a fixed-width model input.
type Vector []float64

// Performance builds the 40-wide performance input. Windows shorter than 10
// samples are left-padded with zero 4-tuples and the real samples are kept
// raw; windows of 10 or more take the last 10 samples normalized by 100.
// The raw-vs-normalized split between the two paths is pinned behavior the
// deployed model was fitted against; do not collapse the branches.
func Performance(window models.MetricsWindow) Vector {
	vec := make(Vector, 0, PerformanceWidth)

	if len(window) < PerformanceWindow {
		for i := 0; i < PerformanceWindow-len(window); i++ {
			vec = append(vec, 0, 0, 0, 0)
		}
		for _, s := range window {
			vec = append(vec, s.CPU, s.Memory, s.Disk, s.Network)
		}
		return vec
	}

	for _, s := range window.Tail(PerformanceWindow) {
		vec = append(vec, s.CPU/100.0, s.Memory/100.0, s.Disk/100.0, s.Network/100.0)
	}
	return vec
}

// Anomaly builds the 4-wide anomaly input from the most recent sample,
// normalized to [0,1] per field.
func Anomaly(window models.MetricsWindow) (Vector, error) {
	latest, ok := window.Latest()
	if !ok {
		return nil, ErrInsufficientData
	}

	return Vector{
		latest.CPU / 100.0,
		latest.Memory / 100.0,
		latest.Disk / 100.0,
		latest.Network / 100.0,
	}, nil
}

// Cost builds the 8-wide cost input: normalized per-field means across the
// whole window, the raw sample count, and a one-hot resource-type triple.
func Cost(window models.MetricsWindow, resourceType models.ResourceType) (Vector, error) {
	if len(window) == 0 {
		return nil, ErrInsufficientData
	}

	avg := window.Averages()

	vec := Vector{
		avg.CPU / 100.0,
		avg.Memory / 100.0,
		avg.Disk / 100.0,
		avg.Network / 100.0,
		float64(len(window)),
		oneHot(resourceType == models.ResourceCompute),
		oneHot(resourceType == models.ResourceDatabase),
		oneHot(resourceType == models.ResourceStorage),
	}
	return vec, nil
}

func oneHot(set bool) float64 {
	if set {
		return 1.0
	}
	return 0.0
}
