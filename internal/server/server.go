// Package server wires the extraction engine, converter, and endpoint
// registry into an HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pdfgrid/pdfgrid/internal/api"
	"github.com/pdfgrid/pdfgrid/internal/config"
	"github.com/pdfgrid/pdfgrid/internal/convert"
	"github.com/pdfgrid/pdfgrid/internal/external"
	"github.com/pdfgrid/pdfgrid/internal/extract"
	"github.com/pdfgrid/pdfgrid/internal/pdftext"
	"github.com/pdfgrid/pdfgrid/internal/server/endpoints"
	"github.com/pdfgrid/pdfgrid/internal/svcctx"
)

// Server is the pdfgrid HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	// services holds the core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server construction settings.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a Server. Strategy capability (model, external) is resolved
// here, once, from the loaded configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	appCfg := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}

	engine := buildEngine(appCfg, cfg.Logger)
	cfg.Logger.Info("extraction engine ready",
		"model_enabled", engine.ModelEnabled(),
		"external_enabled", engine.ExternalEnabled())

	s := &Server{
		logger: cfg.Logger,
		services: &svcctx.Services{
			Engine:    engine,
			PDFText:   pdftext.NewExtractor(appCfg.MaxFileSizeBytes()),
			Converter: convert.New(appCfg.Server.OutputDir, cfg.Logger),
			Config:    appCfg,
			Logger:    cfg.Logger,
		},
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // extraction requests poll external services
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildEngine assembles the extraction engine from configuration. A nil
// model builder or external client simply disables that strategy.
func buildEngine(cfg *config.Config, logger *slog.Logger) *extract.Engine {
	model := extract.NewModelBuilder(extract.ModelConfig{
		APIKey:      cfg.ResolvedModelKey(),
		Model:       cfg.Model.Model,
		BaseURL:     cfg.Model.BaseURL,
		Timeout:     time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
		Temperature: cfg.Model.Temperature,
		Logger:      logger,
	})

	extURL, extKey := cfg.ResolvedExternal()
	ext := external.NewClient(external.Config{
		APIURL:          extURL,
		APIKey:          extKey,
		Timeout:         time.Duration(cfg.External.TimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(cfg.External.PollIntervalSeconds * float64(time.Second)),
		IncludeMetadata: cfg.External.IncludeMetadata,
		Logger:          logger,
	})

	engineCfg := extract.EngineConfig{Model: model, Logger: logger}
	if ext != nil {
		// A nil *Client must not become a non-nil interface value.
		engineCfg.External = ext
	}
	return extract.NewEngine(engineCfg)
}

// Start runs the HTTP server. It blocks until the context is cancelled or
// an error occurs, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the server's service container.
func (s *Server) Services() *svcctx.Services {
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the engine is available before a
// handler that depends on it runs.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.Engine == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
