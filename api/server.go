package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cloudguard-ml/api/handlers"
	"github.com/OldStager01/cloudguard-ml/api/middleware"
	"github.com/OldStager01/cloudguard-ml/api/websocket"
	"github.com/OldStager01/cloudguard-ml/internal/auth"
	"github.com/OldStager01/cloudguard-ml/internal/predictor"
	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// Deps are the collaborators the API layer fronts. Cache and Timeseries may
// be nil in tests; handlers degrade to core-only behavior.
type Deps struct {
	ServiceName   string
	WebSocket     config.WebSocketConfig
	Orchestrator  *twin.Orchestrator
	Retrainer     *predictor.Retrainer
	Cache         handlers.SnapshotCache
	CachePinger   handlers.Pinger
	Timeseries    handlers.Pinger
	ParamsVersion func() string
	Events        <-chan *models.Event
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      config.APIConfig
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
	deps        Deps
}

func NewServer(cfg config.APIConfig, deps Deps) *Server {
	if cfg.JWTSecret == "" || cfg.JWTSecret == "change-me-in-production" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTDuration)
	wsHub := websocket.NewHub(deps.WebSocket)

	s := &Server{
		router:      router,
		config:      cfg,
		authService: authService,
		wsHub:       wsHub,
		deps:        deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// Start WebSocket hub
	go wsHub.Run()

	// Start event bridge to forward core events to WebSocket clients
	if deps.Events != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, deps.Events)
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(s.config.CORS))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.deps.ServiceName, s.deps.ParamsVersion, s.deps.CachePinger, s.deps.Timeseries)
	authHandler := handlers.NewAuthHandler(s.authService, s.config)
	twinHandler := handlers.NewTwinHandler(s.deps.Orchestrator, s.deps.Cache)
	predictionHandler := handlers.NewPredictionHandler(s.deps.Orchestrator, s.deps.Retrainer, s.deps.Cache)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	// Auth routes
	s.router.POST("/auth/token", middleware.AuthRateLimiter(), authHandler.Token)

	// WebSocket route
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	// Protected routes; auth is enforced only when service credentials are
	// configured, so a bare dev deployment stays usable.
	protected := s.router.Group("/")
	if s.config.ServiceSecretHash != "" {
		protected.Use(middleware.JWTAuth(s.authService))
	}
	{
		protected.POST("/predict", predictionHandler.Predict)
		protected.POST("/train", predictionHandler.Train)

		protected.POST("/digital-twin/create", twinHandler.Create)
		protected.POST("/digital-twin/update", twinHandler.Update)
		protected.GET("/digital-twin", twinHandler.List)
		protected.GET("/digital-twin/:id", twinHandler.Get)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
