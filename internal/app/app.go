// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app wires configuration, the document store, the worker bridge,
// and the API server into one runnable container.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wingedpig/loupe/internal/api"
	"github.com/wingedpig/loupe/internal/config"
	"github.com/wingedpig/loupe/internal/document"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/regexsafe"
	"github.com/wingedpig/loupe/internal/search"
	"github.com/wingedpig/loupe/internal/worker"
)

// App is the main application container.
type App struct {
	mu sync.RWMutex

	configPath string
	version    string
	config     *config.Config
	metrics    *metrics.Metrics
	store      *document.Store
	bridge     *worker.Bridge
	apiServer  *api.Server

	done     chan struct{}
	stopOnce sync.Once
}

// Options holds configuration options for the app.
type Options struct {
	ConfigPath string
	Host       string
	Port       int
	Root       string // Document root override from command line
	Debug      bool
	Version    string // Application version string
}

// New creates a new App instance.
func New(opts Options) (*App, error) {
	app := &App{
		configPath: opts.ConfigPath,
		version:    opts.Version,
		done:       make(chan struct{}),
	}

	// Load configuration; run on defaults when no config file exists
	loader := config.NewLoader()
	path := opts.ConfigPath
	if path == "" {
		if found, err := loader.FindConfig(); err == nil {
			path = found
		}
	}

	var cfg *config.Config
	if path != "" {
		var err error
		cfg, err = loader.LoadWithDefaults(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	app.config = cfg

	// Override host/port/root if specified
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.Root != "" {
		cfg.Documents.Root = opts.Root
	}

	return app, nil
}

// Initialize sets up all components.
func (app *App) Initialize(ctx context.Context) error {
	cfg := app.config

	app.metrics = metrics.New()

	store, err := document.NewStore(document.StoreConfig{
		CacheSize: cfg.Documents.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}
	app.store = store

	app.bridge = worker.NewBridge()

	app.apiServer = api.NewServer(
		api.ServerConfig{Host: cfg.Server.Host, Port: cfg.Server.Port},
		api.Dependencies{
			Bridge:  app.bridge,
			Store:   app.store,
			Metrics: app.metrics,
			SearchOpts: search.Options{
				Budget:    time.Duration(cfg.Search.BudgetMs) * time.Millisecond,
				MaxPerTab: cfg.Search.MaxPerTab,
				Gate:      regexsafe.Gate{MaxPatternLength: cfg.Regex.MaxPatternLength},
			},
			TreeOpts: document.TreeOptions{
				MaxDepth: cfg.Documents.TreeDepth,
				Ignore:   cfg.Documents.Ignore,
			},
			Root:    cfg.Documents.Root,
			Version: app.version,
		},
	)

	return nil
}

// Run starts the app and blocks until shutdown. The server and the signal
// waiter run in one errgroup; the first to fail or finish takes the whole
// app down.
func (app *App) Run(ctx context.Context) error {
	if err := app.Initialize(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting API server on %s:%d", app.config.Server.Host, app.config.Server.Port)
		if err := app.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down...", sig)
		case <-gctx.Done():
			log.Printf("Context cancelled, shutting down...")
		case <-app.done:
			log.Printf("Shutdown requested...")
		}

		return app.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown stops all components.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop API server first to stop accepting new requests
	if app.apiServer != nil {
		if err := app.apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down API server: %v", err)
		}
	}

	// Reject pending work and stop the worker
	if app.bridge != nil {
		app.bridge.Close()
	}

	// Stop the snapshot watcher
	if app.store != nil {
		app.store.Close()
	}

	log.Println("Shutdown complete")
	return nil
}

// Stop signals the app to shut down. Safe to call multiple times.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}

// Config returns the loaded configuration.
func (app *App) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}
