package twin

import (
	"math/rand"
	"sync"
	"time"

	"github.com/OldStager01/cloudguard-ml/internal/metrics"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

type StoreConfig struct {
	InitialAccuracy float64
	AccuracyJitter  float64
	AccuracyStep    float64
	AccuracyCeiling float64
}

// Store is the in-memory registry of digital twins, keyed by resource ID. It
// owns every twin record; callers only ever receive snapshots. Updates
// replace whole records, so concurrent writers race to last-write-wins but
// readers never see a torn twin.
type Store struct {
	cfg   StoreConfig
	mu    sync.RWMutex
	twins map[string]*models.DigitalTwinState
}

func NewStore(cfg StoreConfig) *Store {
	if cfg.InitialAccuracy == 0 {
		cfg.InitialAccuracy = 0.75
	}
	if cfg.AccuracyJitter == 0 {
		cfg.AccuracyJitter = 0.2
	}
	if cfg.AccuracyStep == 0 {
		cfg.AccuracyStep = 0.001
	}
	if cfg.AccuracyCeiling == 0 {
		cfg.AccuracyCeiling = 0.99
	}

	return &Store{
		cfg:   cfg,
		twins: make(map[string]*models.DigitalTwinState),
	}
}

// Create registers a new twin, replacing any existing record for the same
// resource. Accuracy is seeded inside [initial, initial+jitter).
func (s *Store) Create(resourceID string, initialState map[string]interface{}) *models.DigitalTwinState {
	now := time.Now()
	twin := &models.DigitalTwinState{
		ResourceID: resourceID,
		State:      initialState,
		Accuracy:   s.cfg.InitialAccuracy + rand.Float64()*s.cfg.AccuracyJitter,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.twins[resourceID] = twin
	metrics.Twins.Set(float64(len(s.twins)))
	s.mu.Unlock()

	return twin.Clone()
}

// Update attaches a fresh prediction set to the twin and bumps its accuracy
// by one step, capped at the ceiling. A missing twin is auto-provisioned with
// an active status so updates never fail. Returns the updated snapshot and
// whether the twin was created by this call.
func (s *Store) Update(resourceID string, predictions *models.PredictionSet) (*models.DigitalTwinState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	twin, ok := s.twins[resourceID]
	created := false
	if !ok {
		twin = &models.DigitalTwinState{
			ResourceID: resourceID,
			State:      map[string]interface{}{"status": "active"},
			Accuracy:   s.cfg.InitialAccuracy + rand.Float64()*s.cfg.AccuracyJitter,
			CreatedAt:  time.Now(),
		}
		s.twins[resourceID] = twin
		metrics.Twins.Set(float64(len(s.twins)))
		created = true
	}

	twin.Predictions = predictions
	if next := twin.Accuracy + s.cfg.AccuracyStep; next < s.cfg.AccuracyCeiling {
		twin.Accuracy = next
	} else {
		twin.Accuracy = s.cfg.AccuracyCeiling
	}
	twin.UpdatedAt = time.Now()

	return twin.Clone(), created
}

// Get returns a snapshot of the twin, if present.
func (s *Store) Get(resourceID string) (*models.DigitalTwinState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	twin, ok := s.twins[resourceID]
	if !ok {
		return nil, false
	}
	return twin.Clone(), true
}

// Count returns the number of twins currently registered.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.twins)
}

// ResourceIDs lists the registered resource identifiers.
func (s *Store) ResourceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.twins))
	for id := range s.twins {
		ids = append(ids, id)
	}
	return ids
}
