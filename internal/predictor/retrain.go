package predictor

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/cloudguard-ml/internal/events"
	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/internal/metrics"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
)

// HistorySource provides access to persisted metric history for retraining.
type HistorySource interface {
	CountSamples(ctx context.Context, window time.Duration) (int64, error)
}

// Job is a handle to one background retraining run.
type Job struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) Cancel() {
	j.cancel()
}

func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Job) setErr(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
}

// Retrainer rebuilds scoring parameters from persisted history and swaps them
// into the engine. Runs are fire-and-forget relative to request handling; at
// most one is in flight at a time.
type Retrainer struct {
	engine    *Engine
	history   HistorySource
	publisher *events.Publisher
	cfg       config.RetrainConfig

	mu      sync.Mutex
	current *Job
}

func NewRetrainer(engine *Engine, history HistorySource, publisher *events.Publisher, cfg config.RetrainConfig) *Retrainer {
	if cfg.Window <= 0 {
		cfg.Window = 30 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	return &Retrainer{
		engine:    engine,
		history:   history,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Trigger starts a retraining run in the background. If one is already in
// flight its handle is returned instead of starting another.
func (r *Retrainer) Trigger() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		select {
		case <-r.current.done:
		default:
			return r.current
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	job := &Job{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	r.current = job

	go r.run(ctx, job)
	return job
}

func (r *Retrainer) run(ctx context.Context, job *Job) {
	defer close(job.done)
	defer job.cancel()

	r.publisher.RetrainStarted()
	logger.Infof("Retraining over trailing %s of history", r.cfg.Window)

	count, err := r.history.CountSamples(ctx, r.cfg.Window)
	if err != nil {
		job.setErr(err)
		logger.Errorf("Retraining aborted, history query failed: %v", err)
		r.publisher.Error("", "Model retraining failed", err)
		return
	}

	params := NewParams(time.Now().UnixNano())
	r.engine.SwapParams(params)

	metrics.RetrainsTotal.Inc()
	logger.Infof("Retraining complete: %d samples, parameters %s", count, params.Version)
	r.publisher.RetrainComplete(params.Version, count)
}
