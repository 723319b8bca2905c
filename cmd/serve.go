package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abhisek/snipbox/internal/auth"
	"github.com/abhisek/snipbox/internal/observability"
	"github.com/abhisek/snipbox/internal/server"
	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/store"
)

const serviceName = "snipbox"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

// runServe opens the store, builds services, and serves until SIGINT or
// SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath, err := resolveDBPath()
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store opened", "path", dbPath)

	if cfg.UsesDevSecret() {
		logger.Warn("using the development JWT secret, set SNIPBOX_AUTH_JWT_SECRET in production")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	authSvc, err := auth.NewService(st.Users(), auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	opts := server.Options{
		BaseURL:      cfg.Server.BaseURL,
		Debounce:     cfg.Analyze.Debounce,
		RateLimit:    cfg.Auth.RateLimit,
		RateBurst:    cfg.Auth.RateBurst,
		SecureCookie: strings.HasPrefix(cfg.Server.BaseURL, "https://"),
		ServiceName:  serviceName,
	}
	if cfg.Tracing.Enabled {
		tp, shutdown, err := observability.InitTracer(serviceName, os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown", "error", err)
			}
		}()
		opts.TracerProvider = tp
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Deps{
		Auth:     authSvc,
		Snippets: snippets.NewService(st.Snippets(), metrics, logger),
		Users:    st.Users(),
		DB:       st,
		Metrics:  metrics,
		Gatherer: reg,
		Logger:   logger,
	}, opts)
	return srv.Run(ctx, cfg.Server.Addr)
}
