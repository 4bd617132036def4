package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/cloudguard-ml/internal/logger"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudguard_predictions_total",
		Help: "Predictions produced, by task type.",
	}, []string{"task"})

	PredictionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudguard_prediction_errors_total",
		Help: "Predictions whose result carried a scoring error, by task type.",
	}, []string{"task"})

	PredictionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cloudguard_prediction_duration_seconds",
		Help:    "Prediction latency, by task type.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	AnomaliesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudguard_anomalies_detected_total",
		Help: "Observations flagged as anomalous.",
	})

	TwinUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudguard_twin_updates_total",
		Help: "Digital twin updates applied.",
	})

	Twins = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cloudguard_twins",
		Help: "Digital twins currently held in memory.",
	})

	PersistenceFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudguard_persistence_failures_total",
		Help: "Time-series persistence hand-offs that failed.",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cloudguard_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
	}, []string{"name"})

	RetrainsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudguard_retrains_total",
		Help: "Completed model retraining runs.",
	})
)

// StartServer exposes the Prometheus registry on its own port.
func StartServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":" + strconv.Itoa(port)
	logger.Infof("Prometheus metrics server listening on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("Prometheus server error: %v", err)
		}
	}()
}
