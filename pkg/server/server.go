package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/themis/pkg/audit"
	"mercator-hq/themis/pkg/config"
	"mercator-hq/themis/pkg/policy/engine"
	"mercator-hq/themis/pkg/telemetry/metrics"
)

// Server is the HTTP decision server. It exposes rule evaluation over
// POST /v1/decisions, liveness over GET /healthz, and Prometheus metrics.
type Server struct {
	config       *config.ServerConfig
	metricsPath  string
	engine       engine.Engine
	recorder     *audit.Recorder
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	logger       *slog.Logger
	mu           sync.RWMutex
	isRunning    bool
}

// Options bundle the collaborators a Server needs. Recorder and Collector
// are optional; a nil recorder disables audit logging and a nil collector
// disables the metrics endpoint.
type Options struct {
	Config    *config.ServerConfig
	Engine    engine.Engine
	Recorder  *audit.Recorder
	Collector *metrics.Collector

	// MetricsPath is where the Prometheus handler is mounted.
	// Default: "/metrics"
	MetricsPath string
}

// NewServer creates a decision server.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("server config cannot be nil")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = config.DefaultMetricsPath
	}

	return &Server{
		config:       opts.Config,
		metricsPath:  metricsPath,
		engine:       opts.Engine,
		recorder:     opts.Recorder,
		collector:    opts.Collector,
		shutdownChan: make(chan struct{}),
		logger:       slog.Default().With("component", "server"),
	}, nil
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting decision server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("decision server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /v1/decisions", s.handleDecision)
	mux.HandleFunc("GET /v1/ruleset", s.handleRuleSet)
	if s.collector != nil {
		mux.Handle("GET "+s.metricsPath, s.collector.Handler())
	}

	return s.logRequests(mux)
}

// logRequests wraps the mux with per-request access logging.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)
	})
}
