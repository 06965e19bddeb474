// Package server provides the HTTP server and routing for Lotwatch.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/lotwatch/internal/config"
	"github.com/aristath/lotwatch/internal/database"
	lotshandlers "github.com/aristath/lotwatch/internal/modules/lots/handlers"
	ordershandlers "github.com/aristath/lotwatch/internal/modules/orders/handlers"
	"github.com/aristath/lotwatch/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log           zerolog.Logger
	Config        *config.Config
	CacheDB       *database.DB
	LotsService   lotshandlers.SnapshotProvider
	OrdersService ordershandlers.RecommendationProvider
	CleanupJob    scheduler.Job
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	cacheDB        *database.DB
	lotsService    lotshandlers.SnapshotProvider
	ordersService  ordershandlers.RecommendationProvider
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		log:           cfg.Log.With().Str("component", "server").Logger(),
		cfg:           cfg.Config,
		cacheDB:       cfg.CacheDB,
		lotsService:   cfg.LotsService,
		ordersService: cfg.OrdersService,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Config.DataDir,
			cfg.CacheDB,
			cfg.CleanupJob,
		),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// System monitoring and operations
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Get("/disk", s.systemHandlers.HandleDiskUsage)

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/cache-cleanup", s.systemHandlers.HandleTriggerCacheCleanup)
			})
		})

		// Lots module
		lotsHandler := lotshandlers.NewHandler(s.lotsService, s.log)
		lotsHandler.RegisterRoutes(r)

		// Orders module
		ordersHandler := ordershandlers.NewHandler(s.ordersService, s.log)
		ordersHandler.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "lotwatch",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
