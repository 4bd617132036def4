package twin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

func TestStore_Create(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})

	snapshot := s.Create("r1", map[string]interface{}{"status": "active"})

	assert.Equal(t, "r1", snapshot.ResourceID)
	assert.Equal(t, "active", snapshot.State["status"])
	assert.GreaterOrEqual(t, snapshot.Accuracy, 0.75)
	assert.Less(t, snapshot.Accuracy, 0.95)
	assert.False(t, snapshot.CreatedAt.IsZero())
	assert.Equal(t, snapshot.CreatedAt, snapshot.UpdatedAt)
	assert.Equal(t, 1, s.Count())
}

func TestStore_CreateReplacesExisting(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})

	s.Create("r1", map[string]interface{}{"generation": 1})
	s.Create("r1", map[string]interface{}{"generation": 2})

	got, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 2, got.State["generation"])
	assert.Nil(t, got.Predictions)
	assert.Equal(t, 1, s.Count())
}

func TestStore_Get_Missing(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})

	got, ok := s.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_Update_AutoProvisions(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})
	predictions := &models.PredictionSet{Anomaly: &models.AnomalyPrediction{AnomalyScore: 0.05}}

	snapshot, created := s.Update("fresh", predictions)

	assert.True(t, created)
	assert.Equal(t, "active", snapshot.State["status"])
	require.NotNil(t, snapshot.Predictions)
	assert.Equal(t, 0.05, snapshot.Predictions.Anomaly.AnomalyScore)
	assert.Equal(t, 1, s.Count())
}

func TestStore_Update_ExistingTwinKeepsState(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})
	s.Create("r1", map[string]interface{}{"region": "us-east-1"})

	snapshot, created := s.Update("r1", &models.PredictionSet{})

	assert.False(t, created)
	assert.Equal(t, "us-east-1", snapshot.State["region"])
}

func TestStore_AccuracyBumpsAndCaps(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{
		InitialAccuracy: 0.985,
		AccuracyJitter:  0.001,
		AccuracyStep:    0.001,
		AccuracyCeiling: 0.99,
	})
	s.Create("r1", nil)

	prev, _ := s.Get("r1")
	for i := 0; i < 20; i++ {
		snapshot, _ := s.Update("r1", &models.PredictionSet{})
		assert.GreaterOrEqual(t, snapshot.Accuracy, prev.Accuracy)
		assert.LessOrEqual(t, snapshot.Accuracy, 0.99)
		prev = snapshot
	}

	assert.Equal(t, 0.99, prev.Accuracy)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})
	s.Create("r1", map[string]interface{}{"status": "active"})

	first, ok := s.Get("r1")
	require.True(t, ok)
	first.State["status"] = "tampered"

	second, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "active", second.State["status"])
}

func TestStore_ResourceIDs(t *testing.T) {
	s := twin.NewStore(twin.StoreConfig{})
	s.Create("a", nil)
	s.Create("b", nil)

	assert.ElementsMatch(t, []string{"a", "b"}, s.ResourceIDs())
}
