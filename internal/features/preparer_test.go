package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cloudguard-ml/internal/features"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

func sample(cpu, mem, disk, net float64) models.MetricSample {
	return models.MetricSample{CPU: cpu, Memory: mem, Disk: disk, Network: net}
}

func TestPerformance_Width(t *testing.T) {
	tests := []struct {
		name    string
		samples int
	}{
		{"empty window", 0},
		{"single sample", 1},
		{"partial window", 7},
		{"exact window", 10},
		{"oversized window", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := make(models.MetricsWindow, 0, tt.samples)
			for i := 0; i < tt.samples; i++ {
				window = append(window, sample(50, 50, 50, 50))
			}

			vec := features.Performance(window)
			assert.Len(t, vec, features.PerformanceWidth)
		})
	}
}

func TestPerformance_ShortWindowPadsLeftWithRawValues(t *testing.T) {
	window := models.MetricsWindow{
		sample(80, 60, 40, 20),
		sample(90, 70, 50, 30),
	}

	vec := features.Performance(window)
	require.Len(t, vec, 40)

	// First 8 zero tuples for the 8 missing samples.
	for i := 0; i < 32; i++ {
		assert.Zero(t, vec[i], "position %d should be padding", i)
	}

	// Real samples stay raw on this path.
	assert.Equal(t, features.Vector{80, 60, 40, 20, 90, 70, 50, 30}, vec[32:])
}

func TestPerformance_FullWindowNormalizes(t *testing.T) {
	window := make(models.MetricsWindow, 0, 10)
	for i := 0; i < 10; i++ {
		window = append(window, sample(50, 60, 70, 80))
	}

	vec := features.Performance(window)
	require.Len(t, vec, 40)

	assert.InDelta(t, 0.5, vec[0], 1e-9)
	assert.InDelta(t, 0.6, vec[1], 1e-9)
	assert.InDelta(t, 0.7, vec[2], 1e-9)
	assert.InDelta(t, 0.8, vec[3], 1e-9)
}

func TestPerformance_OversizedWindowKeepsTail(t *testing.T) {
	window := make(models.MetricsWindow, 0, 15)
	for i := 0; i < 5; i++ {
		window = append(window, sample(10, 10, 10, 10))
	}
	for i := 0; i < 10; i++ {
		window = append(window, sample(90, 90, 90, 90))
	}

	vec := features.Performance(window)
	require.Len(t, vec, 40)

	// Only the trailing 10 samples survive, all normalized to 0.9.
	for i, v := range vec {
		assert.InDelta(t, 0.9, v, 1e-9, "position %d", i)
	}
}

func TestAnomaly(t *testing.T) {
	t.Run("uses latest sample normalized", func(t *testing.T) {
		window := models.MetricsWindow{
			sample(10, 10, 10, 10),
			sample(85, 65, 45, 25),
		}

		vec, err := features.Anomaly(window)
		require.NoError(t, err)
		require.Len(t, vec, features.AnomalyWidth)

		assert.InDelta(t, 0.85, vec[0], 1e-9)
		assert.InDelta(t, 0.65, vec[1], 1e-9)
		assert.InDelta(t, 0.45, vec[2], 1e-9)
		assert.InDelta(t, 0.25, vec[3], 1e-9)
	})

	t.Run("empty window fails", func(t *testing.T) {
		_, err := features.Anomaly(models.MetricsWindow{})
		assert.ErrorIs(t, err, features.ErrInsufficientData)
	})
}

func TestCost(t *testing.T) {
	t.Run("means count and one-hot", func(t *testing.T) {
		window := models.MetricsWindow{
			sample(40, 20, 10, 5),
			sample(60, 40, 30, 15),
		}

		vec, err := features.Cost(window, models.ResourceDatabase)
		require.NoError(t, err)
		require.Len(t, vec, features.CostWidth)

		assert.InDelta(t, 0.5, vec[0], 1e-9)  // mean cpu 50 / 100
		assert.InDelta(t, 0.3, vec[1], 1e-9)  // mean memory 30 / 100
		assert.InDelta(t, 0.2, vec[2], 1e-9)  // mean disk 20 / 100
		assert.InDelta(t, 0.1, vec[3], 1e-9)  // mean network 10 / 100
		assert.Equal(t, 2.0, vec[4])          // raw sample count
		assert.Equal(t, features.Vector{0, 1, 0}, vec[5:])
	})

	t.Run("one-hot per resource type", func(t *testing.T) {
		window := models.MetricsWindow{sample(50, 50, 50, 50)}

		tests := []struct {
			resourceType models.ResourceType
			expected     features.Vector
		}{
			{models.ResourceCompute, features.Vector{1, 0, 0}},
			{models.ResourceDatabase, features.Vector{0, 1, 0}},
			{models.ResourceStorage, features.Vector{0, 0, 1}},
			{models.ResourceType("unknown"), features.Vector{0, 0, 0}},
		}

		for _, tt := range tests {
			vec, err := features.Cost(window, tt.resourceType)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, vec[5:], "resource type %s", tt.resourceType)
		}
	})

	t.Run("empty window fails", func(t *testing.T) {
		_, err := features.Cost(models.MetricsWindow{}, models.ResourceCompute)
		assert.ErrorIs(t, err, features.ErrInsufficientData)
	})
}
