// Package server assembles the HTTP surface of the activities service.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mergington/internal/activities"
	"mergington/internal/auth"
	"mergington/internal/config"
	"mergington/internal/session"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg *config.Config

	auth       auth.Service
	activities *activities.Service
	sessions   session.Manager
	logger     *slog.Logger
}

// Deps are the already constructed components the routes are built from
type Deps struct {
	Auth       auth.Service
	Activities *activities.Service
	Sessions   session.Manager
	Logger     *slog.Logger
}

// New creates a Server from its configuration and dependencies
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		auth:       deps.Auth,
		activities: deps.Activities,
		sessions:   deps.Sessions,
		logger:     logger,
	}
}

// NewServer creates and configures a new HTTP server
func NewServer(cfg *config.Config, deps Deps) *http.Server {
	appServer := New(cfg, deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           appServer.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	appServer.logger.Info("HTTP server configured", "port", cfg.Port)
	return server
}
