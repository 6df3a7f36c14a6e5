// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api wires the HTTP router and server for the query engine.
package api

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wingedpig/loupe/internal/api/handlers"
	"github.com/wingedpig/loupe/internal/api/middleware"
	"github.com/wingedpig/loupe/internal/api/version"
	"github.com/wingedpig/loupe/internal/document"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/search"
	"github.com/wingedpig/loupe/internal/worker"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host string
	Port int
}

// Dependencies holds all dependencies for API handlers.
type Dependencies struct {
	Bridge     *worker.Bridge
	Store      *document.Store
	Metrics    *metrics.Metrics
	SearchOpts search.Options
	TreeOpts   document.TreeOptions
	Root       string // Workspace root for document browsing
	Version    string // Application version string
}

// NewRouter creates a new API router.
func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS)
	r.Use(version.Middleware)

	// API v1 routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Query handlers
	queryHandler := handlers.NewQueryHandler(deps.Bridge, deps.Store, deps.Metrics)
	api.HandleFunc("/query/compile", queryHandler.Compile).Methods("POST")
	api.HandleFunc("/query/filter", queryHandler.Filter).Methods("POST")

	// JSON path handlers
	pathHandler := handlers.NewPathHandler(deps.Bridge, deps.Store, deps.Metrics)
	api.HandleFunc("/path/resolve", pathHandler.Resolve).Methods("POST")
	api.HandleFunc("/path/locate", pathHandler.Locate).Methods("POST")

	// Multi-tab search handler
	searchHandler := handlers.NewSearchHandler(deps.Bridge, deps.Metrics, deps.SearchOpts)
	api.HandleFunc("/search", searchHandler.Search).Methods("POST")

	// Document handlers
	documentHandler := handlers.NewDocumentHandler(deps.Store, deps.Root, deps.TreeOpts)
	api.HandleFunc("/documents/open", documentHandler.Open).Methods("GET")
	api.HandleFunc("/documents/tree", documentHandler.Tree).Methods("GET")

	// Live query channel
	wsHandler := handlers.NewWSHandler(deps.Bridge, deps.Metrics, deps.SearchOpts)
	api.Handle("/ws", wsHandler).Methods("GET")

	// System handlers
	systemHandler := handlers.NewSystemHandler(deps.Version)
	api.HandleFunc("/version", systemHandler.Version).Methods("GET")
	api.HandleFunc("/health", systemHandler.Health).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Debug/profiling endpoints
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// Server represents the API server.
type Server struct {
	router *mux.Router
	cfg    ServerConfig
	server *http.Server
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	return &Server{
		router: NewRouter(deps),
		cfg:    cfg,
	}
}

// Router returns the underlying router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("API server listening on http://%s", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Println("Shutting down API server...")

	// Create a timeout context if none provided
	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	return s.server.Shutdown(shutdownCtx)
}
