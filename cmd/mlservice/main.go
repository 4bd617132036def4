package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/cloudguard-ml/api"
	"github.com/OldStager01/cloudguard-ml/internal/auth"
	"github.com/OldStager01/cloudguard-ml/internal/events"
	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/internal/metrics"
	"github.com/OldStager01/cloudguard-ml/internal/predictor"
	"github.com/OldStager01/cloudguard-ml/internal/resilience"
	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/cache"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/timeseries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	hashSecret := flag.String("hash-secret", "", "print the bcrypt hash of a service secret and exit")
	flag.Parse()

	if *hashSecret != "" {
		hash, err := auth.HashSecret(*hashSecret)
		if err != nil {
			return fmt.Errorf("failed to hash secret: %w", err)
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	// Redis prediction cache. The cache is an optimization; the service runs
	// without it and serves everything from the in-memory store.
	var snapshotCache *cache.Cache
	if c, err := cache.New(cfg.Redis); err != nil {
		logger.Warnf("Redis unavailable, running without cache: %v", err)
	} else {
		snapshotCache = c
		defer snapshotCache.Close()
		logger.Infof("Redis cache connected at %s", cfg.Redis.Addr())
	}

	tsClient := timeseries.New(cfg.InfluxDB)
	defer tsClient.Close()

	// Event bus with a logging drain; the API layer attaches its own
	// WebSocket bridge subscriber.
	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()

	eventLogger := events.NewEventLogger(bus.SubscribeAll())
	eventLogger.Start()

	publisher := events.NewPublisher(bus)

	engine := predictor.New(cfg.Predictor)
	logger.Infof("Prediction engine initialized (params %s)", engine.ParamsVersion())

	store := twin.NewStore(twin.StoreConfig{
		InitialAccuracy: cfg.Predictor.InitialAccuracy,
		AccuracyJitter:  cfg.Predictor.AccuracyJitter,
		AccuracyStep:    cfg.Predictor.AccuracyStep,
		AccuracyCeiling: cfg.Predictor.AccuracyCeiling,
	})

	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:        "timeseries",
		MaxFailures: cfg.InfluxDB.CircuitBreaker.MaxFailures,
		Cooldown:    cfg.InfluxDB.CircuitBreaker.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	orchestrator := twin.NewOrchestrator(twin.OrchestratorConfig{
		Store:     store,
		Engine:    engine,
		Persister: tsClient,
		Publisher: publisher,
		Breaker:   breaker,
	})

	retrainer := predictor.NewRetrainer(engine, tsClient, publisher, cfg.Retrain)

	if cfg.Prometheus.Enabled {
		metrics.StartServer(cfg.Prometheus.Port)
	}

	deps := api.Deps{
		ServiceName:   cfg.App.Name,
		WebSocket:     cfg.WebSocket,
		Orchestrator:  orchestrator,
		Retrainer:     retrainer,
		Timeseries:    tsClient,
		ParamsVersion: engine.ParamsVersion,
		Events:        bus.SubscribeAll(),
	}
	if snapshotCache != nil {
		deps.Cache = snapshotCache
		deps.CachePinger = snapshotCache
	}

	server := api.NewServer(cfg.API, deps)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	eventLogger.Stop()

	logger.Info("Server stopped gracefully")
	return nil
}
