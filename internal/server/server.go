// Package server implements the demo triage backend: a self-contained HTTP
// API serving analyzed emails from an in-memory store, with a scheduled
// synthetic ingest standing in for a real mailbox sync.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/codebharat/mailtriage/internal/config"
)

// syncBatchSize is how many synthetic emails one sync run ingests.
const syncBatchSize = 2

// Server represents the demo backend HTTP server.
type Server struct {
	cfg         *config.Config
	store       *Store
	logger      *slog.Logger
	router      chi.Router
	server      *http.Server
	rateLimiter *RateLimiter
	cron        *cron.Cron
}

// NewServer creates a demo backend around the given store.
func NewServer(cfg *config.Config, store *Store, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS (config-driven; disabled when no origins configured)
	corsConfig := DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.cfg.Server.CORSOrigins
	r.Use(CORSMiddleware(corsConfig))

	// Rate limiting (10 req/sec with burst of 20)
	s.rateLimiter = NewRateLimiter(10, 20)
	r.Use(RateLimitMiddleware(s.rateLimiter))

	r.Get("/health", s.handleHealth)
	r.Get("/emails", s.handleListEmails)
	r.Post("/sync-gmail", s.handleSync)
	r.Post("/escalate/{id}", s.handleEscalate)

	return r
}

// Start begins listening for HTTP requests and starts the scheduled ingest
// if one is configured. Blocks until the server stops.
func (s *Server) Start() error {
	if schedule := s.cfg.Server.IngestSchedule; schedule != "" {
		s.cron = cron.New()
		_, err := s.cron.AddFunc(schedule, func() {
			added := s.store.Ingest(1)
			s.logger.Info("scheduled ingest", "added", added, "total", s.store.Count())
		})
		if err != nil {
			s.logger.Warn("invalid ingest schedule, periodic ingest disabled",
				"schedule", schedule, "error", err)
		} else {
			s.cron.Start()
		}
	}

	s.server = &http.Server{
		Addr:         s.cfg.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting demo backend", "addr", s.server.Addr, "emails", s.store.Count())
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and the ingest schedule.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down demo backend")
	return s.server.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// loggerMiddleware logs HTTP requests.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
