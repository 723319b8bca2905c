// Package server exposes snipbox over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/snipbox/internal/auth"
	"github.com/abhisek/snipbox/internal/observability"
	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/store"
	"github.com/abhisek/snipbox/internal/watch"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server needs.
type Deps struct {
	Auth     *auth.Service
	Snippets *snippets.Service
	Users    store.UserRepo
	DB       Pinger // optional
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Options tune server behavior.
type Options struct {
	// BaseURL is the public origin used in share links.
	BaseURL string

	// Debounce delays live analysis after the last edit.
	Debounce time.Duration

	// RateLimit is requests per second per client IP on login and
	// register. Zero disables limiting.
	RateLimit float64
	RateBurst int

	// SecureCookie marks the auth cookie Secure.
	SecureCookie bool

	// TracerProvider enables request tracing when set.
	TracerProvider trace.TracerProvider
	ServiceName    string
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	deps     Deps
	opts     Options
	limiter  *ipLimiter
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a server. Metrics and Gatherer are required.
func New(deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = watch.DefaultDelay
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "snipbox"
	}
	return &Server{
		deps:    deps,
		opts:    opts,
		limiter: newIPLimiter(opts.RateLimit, opts.RateBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     sameOrigin(opts.BaseURL),
		},
		logger: deps.Logger,
	}
}

// sameOrigin accepts websocket upgrades without an Origin header, from the
// request's own host, or from baseURL.
func sameOrigin(baseURL string) func(*http.Request) bool {
	var allowed string
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		allowed = u.Scheme + "://" + u.Host
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return allowed != "" && strings.EqualFold(u.Scheme+"://"+u.Host, allowed)
	}
}

// Handler builds the gin engine with middleware and routes.
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	if s.opts.TracerProvider != nil {
		router.Use(tracing(s.opts.ServiceName, s.opts.TracerProvider))
	}
	router.Use(requestLogger(s.logger))
	router.Use(s.deps.Metrics.Middleware())

	SetupRoutes(router, s)
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
