// Package server exposes the checker over HTTP and WebSocket.
package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/journal"
	"github.com/msto63/ccp/pkg/core/health"
	"github.com/msto63/ccp/pkg/core/version"
)

// Server is the checking service
type Server struct {
	httpServer *http.Server
	handler    *Handler
	health     *health.Registry
	logger     *mdwlog.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShowTokens includes the token listing in check responses.
	ShowTokens bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ShowTokens:   true,
	}
}

// New creates a server around checker. store may be nil, in which case
// runs are not recorded and the history endpoints answer 404.
func New(cfg Config, checker *frontend.Checker, store journal.Store, logger *mdwlog.Logger) *Server {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	logger = logger.WithName("ccp-server")

	registry := health.NewRegistry("ccp", version.Release)
	registry.Register(frontendCheck(checker))
	if store != nil {
		registry.Register(journalCheck(store))
	}

	h := NewHandler(checker, store, registry, logger, cfg.ShowTokens)
	ws := NewWebSocketHandler(h)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/check/ws", ws)
	mux.Handle("/api/", h)
	mux.Handle("/", h)

	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:      loggingMiddleware(logger, mux),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: h,
		health:  registry,
		logger:  logger,
		config:  cfg,
	}
}

// frontendCheck runs a fixed program through the checker.
func frontendCheck(checker *frontend.Checker) health.Checker {
	const sample = "int x;\nx = (1 + 2) * 3;\n"
	return health.NewChecker("frontend", func(ctx context.Context) health.CheckResult {
		res := checker.Check(ctx, sample)
		if !res.OK() {
			return health.CheckResult{
				Name:    "frontend",
				Status:  health.StatusUnhealthy,
				Message: fmt.Sprintf("sample program rejected: %v", res.Err),
			}
		}
		hits, misses := checker.CacheStats()
		return health.CheckResult{
			Name:   "frontend",
			Status: health.StatusHealthy,
			Details: map[string]interface{}{
				"cache_hits":   hits,
				"cache_misses": misses,
			},
		}
	})
}

// journalCheck degrades the report when the history store is unreadable.
func journalCheck(store journal.Store) health.Checker {
	return health.ProbeCheck("journal", true, func(ctx context.Context) error {
		_, err := store.Stats(ctx)
		return err
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request", mdwlog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade take over the connection.
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Start listens and serves until Stop is called. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting ccp server", mdwlog.Fields{"address": s.Address()})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Serve is Start on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("Starting ccp server", mdwlog.Fields{"address": l.Addr().String()})
	if err := s.httpServer.Serve(l); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ccp server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// Handler returns the root HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
