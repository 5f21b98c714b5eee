package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vinstats/internal/config"
	apierrors "vinstats/internal/errors"
	"vinstats/internal/files"
	"vinstats/internal/infrastructure"
	"vinstats/internal/ingest"
	"vinstats/internal/middleware"
	"vinstats/internal/services"
	transporthttp "vinstats/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

const requestTimeout = 60 * time.Second

// Application owns the HTTP server and every component it serves.
type Application struct {
	config *config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds the application from configuration: logger, metrics, the
// catalog store, the stats service and the routed HTTP server.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := infrastructure.NewMetrics(registry)

	discovery := files.NewDiscovery(cfg.Paths.DataDir)
	loader := ingest.NewLoader(logger)
	store := ingest.NewStore(loader)
	store.OnLoad(metrics.CatalogLoads.Inc)

	statsService := services.NewStatsService(discovery, store, metrics, logger)

	errorHandler := apierrors.NewErrorHandler(logger)
	statsHandler := transporthttp.NewStatsHandler(statsService, errorHandler, logger)
	healthHandler := transporthttp.NewHealthHandler(Version)

	router := setupRouter(cfg, logger, metrics, errorHandler, statsHandler, healthHandler, registry)

	app := &Application{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}

	logger.Info("application initialized",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("data_dir", cfg.Paths.DataDir))
	return app, nil
}

func setupRouter(
	cfg *config.Config,
	logger *slog.Logger,
	metrics *infrastructure.Metrics,
	errorHandler *apierrors.ErrorHandler,
	statsHandler *transporthttp.StatsHandler,
	healthHandler *transporthttp.HealthHandler,
	registry *prometheus.Registry,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// Metrics endpoint stays outside the API middleware group so scrapes
	// are never rate limited or logged per request.
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.StructuredLogger(logger))
		r.Use(middleware.Recoverer(errorHandler))
		r.Use(middleware.HTTPMetrics(metrics))
		r.Use(middleware.SecurityHeaders)
		r.Use(chimiddleware.Compress(5))
		if cfg.Security.EnableCORS {
			corsConfig := middleware.DefaultCORSConfig()
			corsConfig.AllowedOrigins = cfg.Security.AllowedOrigins
			r.Use(middleware.CORS(corsConfig))
		}
		if cfg.Security.RateLimit.Enabled {
			r.Use(middleware.RateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst))
		}
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", healthHandler.Handle)
			r.Mount("/stats", statsHandler.Routes())
		})
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	return r
}

// Start begins serving HTTP. It returns when the listener stops.
func (a *Application) Start() error {
	a.logger.Info("http server starting", slog.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (a *Application) Stop(ctx context.Context) error {
	a.logger.Info("http server stopping")
	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}
	return nil
}

// Run starts the server and blocks until SIGINT or SIGTERM, then performs
// a graceful shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		return a.Stop(context.Background())
	}
}
