// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/snaplink/snaplink/internal/auth"
	"github.com/snaplink/snaplink/internal/config"
	"github.com/snaplink/snaplink/internal/handlers"
	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/middleware"
	"github.com/snaplink/snaplink/pkg/logger"
)

// Handlers bundles the request handlers the server routes to.
type Handlers struct {
	URL       *handlers.URLHandler
	Redirect  *handlers.RedirectHandler
	Analytics *handlers.AnalyticsHandler
	Auth      *handlers.AuthHandler
}

// Server represents the HTTP server.
type Server struct {
	cfg           *config.Config
	log           *logger.Logger
	httpServer    *http.Server
	healthHandler *handlers.HealthHandler
	listener      net.Listener
	running       bool
	mu            sync.RWMutex
}

// New creates a new Server instance. Routes under /user and /me require a
// bearer token verified by tokens.
func New(cfg *config.Config, log *logger.Logger, h Handlers, tokens *auth.TokenManager) *Server {
	s := &Server{
		cfg:           cfg,
		log:           log,
		healthHandler: handlers.NewHealthHandler(),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux, h, tokens)

	chain := middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.ClientIP(true, nil),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h Handlers, tokens *auth.TokenManager) {
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	// Anonymous shortening and per-link stats
	mux.HandleFunc("POST /shorten", h.URL.Shorten)
	mux.HandleFunc("GET /stats/{code}", h.URL.Stats)

	// Analytics. /analytics/global must be registered alongside the
	// {code} pattern; the mux prefers the literal segment.
	mux.HandleFunc("GET /analytics/global", h.Analytics.GlobalAnalytics)
	mux.HandleFunc("GET /analytics/{code}", h.Analytics.URLAnalytics)
	mux.HandleFunc("POST /admin/analytics/cleanup", h.Analytics.Cleanup)

	// Accounts
	mux.HandleFunc("POST /register", h.Auth.Register)
	mux.HandleFunc("POST /login", h.Auth.Login)

	// Authenticated routes
	authed := middleware.New(middleware.Authenticate(tokens))
	mux.Handle("GET /me", authed.ThenFunc(h.Auth.Me))
	mux.Handle("DELETE /me", authed.ThenFunc(h.Auth.DeleteMe))
	mux.Handle("POST /user/shorten", authed.ThenFunc(h.URL.ShortenForUser))
	mux.Handle("GET /user/urls", authed.ThenFunc(h.URL.ListForUser))
	mux.Handle("GET /user/urls/{id}", authed.ThenFunc(h.URL.GetForUser))
	mux.Handle("PUT /user/urls/{id}", authed.ThenFunc(h.URL.UpdateForUser))
	mux.Handle("DELETE /user/urls/{id}", authed.ThenFunc(h.URL.DeleteForUser))
	mux.Handle("GET /user/analytics", authed.ThenFunc(h.Analytics.UserAnalytics))

	// Redirect route. More specific patterns above win over {code}.
	mux.HandleFunc("GET /{code}", h.Redirect.Redirect)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.cfg.Server.Address()

	// Create listener first to get the actual address (important when port is 0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err = s.httpServer.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	// Mark as not ready so load balancers drain traffic
	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// HealthHandler returns the health handler.
func (s *Server) HealthHandler() *handlers.HealthHandler {
	return s.healthHandler
}
