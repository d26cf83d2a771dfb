// Package server assembles the development metadata server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/rulekeeper/internal/metrics"
	"github.com/iudanet/rulekeeper/internal/server/handlers"
	"github.com/iudanet/rulekeeper/internal/server/middleware"
	"github.com/iudanet/rulekeeper/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

// Config holds server options
type Config struct {
	// Validator enables bearer authentication of api/ routes when set
	Validator middleware.TokenValidator
	Metrics   *metrics.Metrics
	Info      handlers.ServerInfo
	Addr      string
	// AppVersion is reported by /health
	AppVersion string
	// RateLimit is the number of requests per client per RatePeriod, 0 disables limiting
	RateLimit  int
	RatePeriod time.Duration
}

// Server serves the metadata API
type Server struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	logger  *slog.Logger
	addr    string
}

// New builds the routes and middleware chain
func New(cfg Config, store storage.MetadataStorage, logger *slog.Logger) (*Server, error) {
	meta, err := handlers.NewMetadataHandler(store, cfg.Info, logger)
	if err != nil {
		return nil, err
	}
	health := handlers.NewHealthHandler(store, cfg.AppVersion, logger)

	s := &Server{logger: logger, addr: cfg.Addr}

	var apiMiddleware []middleware.Middleware
	if cfg.Validator != nil {
		apiMiddleware = append(apiMiddleware, middleware.Auth(logger, cfg.Validator))
	}
	if cfg.RateLimit > 0 {
		period := cfg.RatePeriod
		if period <= 0 {
			period = time.Minute
		}
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, period, logger)
		apiMiddleware = append(apiMiddleware, s.limiter.Middleware())
	}

	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc, mws ...middleware.Middleware) {
		mux.Handle(pattern, middleware.Chain(h, append([]middleware.Middleware{middleware.Metrics(cfg.Metrics, pattern)}, mws...)...))
	}

	route("GET /api/system/status", meta.Status)
	route("GET /api/components/search.protobuf", meta.ComponentsSearch, apiMiddleware...)
	route("GET /api/projects/index", meta.ProjectsIndex, apiMiddleware...)
	route("GET /api/rules/search.protobuf", meta.RulesSearch, apiMiddleware...)
	route("GET /api/qualityprofiles/search", meta.QualityProfiles, apiMiddleware...)
	route("GET /api/plugins/installed", meta.PluginsInstalled, apiMiddleware...)
	route("GET /health", health.Health)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	s.handler = middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.Logging(logger, "/health", "/metrics"),
	)

	return s, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
