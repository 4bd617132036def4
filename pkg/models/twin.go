package models

import "time"

// DigitalTwinState mirrors a cloud resource's latest observed state and most
// recent predictions. Instances handed out by the twin store are snapshots;
// mutation happens only inside the store.
type DigitalTwinState struct {
	ResourceID  string                 `json:"resource_id"`
	State       map[string]interface{} `json:"state"`
	Predictions *PredictionSet         `json:"predictions,omitempty"`
	Accuracy    float64                `json:"accuracy"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Clone returns a deep-enough copy for read-only consumers. Prediction
// payloads are replaced wholesale on update, so sharing them is safe.
func (t *DigitalTwinState) Clone() *DigitalTwinState {
	if t == nil {
		return nil
	}

	clone := *t
	if t.State != nil {
		clone.State = make(map[string]interface{}, len(t.State))
		for k, v := range t.State {
			clone.State[k] = v
		}
	}
	if t.Predictions != nil {
		predictions := *t.Predictions
		clone.Predictions = &predictions
	}
	return &clone
}
