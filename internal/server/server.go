// Package server provides the HTTP API for docsearch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inline"
	"github.com/hyperjump/docsearch/internal/search"
	"go.uber.org/zap"
)

// RefreshTrigger requests an asynchronous inventory refresh.
type RefreshTrigger interface {
	Trigger() error
}

// Server is the HTTP server for the docsearch API.
type Server struct {
	engine   *search.Engine
	inserter *inline.Inserter
	trigger  RefreshTrigger
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. trigger may be nil,
// in which case POST /api/v1/refresh refreshes synchronously.
func NewServer(engine *search.Engine, trigger RefreshTrigger, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		inserter: inline.NewInserter(engine, cfg.Search.ResultsPerQuery),
		trigger:  trigger,
		config:   cfg,
		logger:   logger,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/search/page", s.handleSearchPage)
		r.Post("/combinations", s.handleCombinations)
		r.Post("/insert", s.handleInsert)
		r.Get("/project", s.handleProject)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
