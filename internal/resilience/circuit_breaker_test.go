package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/cloudguard-ml/internal/resilience"
)

func TestBreaker_Execute(t *testing.T) {
	tests := []struct {
		name          string
		config        resilience.BreakerConfig
		execFunc      func() error
		expectedErr   error
		expectedState resilience.State
	}{
		{
			name: "successful execution stays closed",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    5 * time.Second,
			},
			execFunc:      func() error { return nil },
			expectedErr:   nil,
			expectedState: resilience.StateClosed,
		},
		{
			name: "single failure stays closed",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    5 * time.Second,
			},
			execFunc:      func() error { return errors.New("fail") },
			expectedErr:   nil,
			expectedState: resilience.StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := resilience.NewBreaker(tt.config)

			err := cb.Execute(tt.execFunc)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestBreaker_StateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		config        resilience.BreakerConfig
		setup         func(cb *resilience.Breaker)
		expectedState resilience.State
	}{
		{
			name: "transition to open after max failures",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    5 * time.Second,
			},
			setup: func(cb *resilience.Breaker) {
				for i := 0; i < 3; i++ {
					cb.Execute(func() error { return errors.New("fail") })
				}
			},
			expectedState: resilience.StateOpen,
		},
		{
			name: "probe after cooldown closes on success",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    50 * time.Millisecond,
			},
			setup: func(cb *resilience.Breaker) {
				for i := 0; i < 3; i++ {
					cb.Execute(func() error { return errors.New("fail") })
				}
				time.Sleep(100 * time.Millisecond)
				cb.Execute(func() error { return nil })
			},
			expectedState: resilience.StateClosed,
		},
		{
			name: "probe failure reopens",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    50 * time.Millisecond,
			},
			setup: func(cb *resilience.Breaker) {
				for i := 0; i < 3; i++ {
					cb.Execute(func() error { return errors.New("fail") })
				}
				time.Sleep(100 * time.Millisecond)
				cb.Execute(func() error { return errors.New("still failing") })
			},
			expectedState: resilience.StateOpen,
		},
		{
			name: "reset returns to closed",
			config: resilience.BreakerConfig{
				MaxFailures: 3,
				Cooldown:    1 * time.Hour,
			},
			setup: func(cb *resilience.Breaker) {
				for i := 0; i < 3; i++ {
					cb.Execute(func() error { return errors.New("fail") })
				}
				cb.Reset()
			},
			expectedState: resilience.StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := resilience.NewBreaker(tt.config)

			tt.setup(cb)

			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestBreaker_OpenState_RejectsRequest(t *testing.T) {
	cb := resilience.NewBreaker(resilience.BreakerConfig{
		MaxFailures: 3,
		Cooldown:    1 * time.Hour,
	})

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return errors.New("fail") })
	}

	err := cb.Execute(func() error { return nil })

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := resilience.NewBreaker(resilience.BreakerConfig{
		MaxFailures: 3,
		Cooldown:    5 * time.Second,
	})

	cb.Execute(func() error { return errors.New("fail") })
	cb.Execute(func() error { return errors.New("fail") })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return errors.New("fail") })
	cb.Execute(func() error { return errors.New("fail") })

	assert.Equal(t, resilience.StateClosed, cb.State())
}
