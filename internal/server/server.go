package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"courtside/internal/analysis"
	"courtside/internal/config"
	"courtside/internal/core"
	"courtside/internal/logger"
	"courtside/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GameSource lists upcoming games.
type GameSource interface {
	Upcoming(ctx context.Context) []core.Game
}

// Analyzer produces a prop analysis for one game.
type Analyzer interface {
	Analyze(ctx context.Context, game core.Game, filter core.PropFilter) (core.AnalysisResult, error)
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     config.Server
	log        *slog.Logger
	games      GameSource
	analyzer   Analyzer
	metrics    *metrics.Metrics

	// In-flight analysis per client, keyed by the X-Session-ID header
	mu       sync.Mutex
	sessions map[string]*analysis.Session
}

// New creates a new HTTP server instance
func New(cfg config.Server, games GameSource, analyzer Analyzer, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		log:      logger.Get(),
		games:    games,
		analyzer: analyzer,
		metrics:  m,
		sessions: make(map[string]*analysis.Session),
	}

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	// Request ID middleware
	s.router.Use(middleware.RequestID)

	// Real IP middleware
	s.router.Use(middleware.RealIP)

	// Logging middleware
	s.router.Use(middleware.Logger)

	// Recovery middleware (recover from panics)
	s.router.Use(middleware.Recoverer)

	s.router.Use(securityHeaders)

	// CORS middleware
	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", sessionHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300, // Maximum value not ignored by any major browsers
		}))
	}
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.Get("/health", s.handleHealth)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(noCache)

		r.Get("/games", s.handleListGames)
		r.Post("/analysis", s.handleAnalyze)
		r.Post("/slip", s.handleSlip)
	})
}

// beginSession starts a request on a client's session, creating the session on
// first use. Lookup and Begin share the server lock so releaseSession cannot
// drop a session between them.
func (s *Server) beginSession(ctx context.Context, id string) (*analysis.Session, analysis.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &analysis.Session{}
		s.sessions[id] = sess
	}
	return sess, sess.Begin(ctx)
}

// releaseSession forgets a client's session once its latest request is done.
func (s *Server) releaseSession(id string, sess *analysis.Session, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[id] == sess && sess.Current(generation) {
		delete(s.sessions, id)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
