package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/tracing"
)

// Server is an in-memory stand-in for the remote gym service
type Server struct {
	router  *gin.Engine
	store   *Store
	logger  *logging.Logger
	metrics *monitoring.Metrics
	config  config.DevServerConfig

	mu     sync.Mutex
	http   *http.Server
	closed bool
}

// NewServer creates a stub server instance
func NewServer(cfg config.DevServerConfig, logger *logging.Logger, metrics *monitoring.Metrics) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Component("devserver")
	if metrics == nil {
		metrics = monitoring.NewMetrics(nil)
	}

	store := NewStore()
	handlers := NewHandlers(store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(logger))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(CORS(corsCfg))

	if cfg.RateLimitEnabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RequestsPerSecond),
			zap.Int("burst", cfg.Burst),
		)
		router.Use(RateLimit(RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		}))
	}

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	user := router.Group("/api/user")
	user.POST("/login", handlers.Login)
	user.POST("/register", handlers.Register)

	authed := router.Group("/api", Authenticated(store))
	authed.GET("/user/profile", handlers.Profile)
	authed.PUT("/user/active-gym", handlers.SwitchActive)
	authed.PUT("/user/update-profile", handlers.UpdateProfile)
	authed.DELETE("/user", handlers.DeleteAccount)
	authed.POST("/gym/crear", handlers.CreateGym)
	authed.PUT("/gym/:id", handlers.UpdateGym)
	authed.DELETE("/gym/:id", handlers.DeleteGym)

	return &Server{
		router:  router,
		store:   store,
		logger:  logger,
		metrics: metrics,
		config:  cfg,
	}
}

// Handler returns the HTTP handler, e.g. for httptest.NewServer
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the server state for seeding and fault injection
func (s *Server) Store() *Store {
	return s.store
}

// Run listens on the configured address until Shutdown is called
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.http = srv
	s.mu.Unlock()

	s.logger.Info("Starting stub server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.closed = true
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("Shutting down stub server...")
	return srv.Shutdown(ctx)
}
