package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/surfwatch/internal/api/http"
	"github.com/i474232898/surfwatch/internal/cache"
	"github.com/i474232898/surfwatch/internal/config"
	"github.com/i474232898/surfwatch/internal/marine"
	"github.com/i474232898/surfwatch/internal/marine/feed"
	"github.com/i474232898/surfwatch/internal/marine/providers"
	"github.com/i474232898/surfwatch/internal/observability"
	"github.com/i474232898/surfwatch/internal/scheduler"
	"github.com/i474232898/surfwatch/internal/store"
	"github.com/i474232898/surfwatch/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("surfwatch stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := tracing.InitTracer(ctx, tracing.Config{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		return err
	}
	defer shutdownTracer(tp, log)

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	obsCache, closeCache, err := newObservationCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	ndbc := feed.NewClient(httpClient, cfg.NDBCBaseURL, metrics, tracer)
	source := feed.NewCachedSource(ndbc, obsCache, metrics)

	// Order is the fallback order: CDIP overrides first, the default buoy feed last.
	aggregator := marine.NewAggregator([]marine.Provider{
		providers.NewCDIPProvider(httpClient, cfg.CDIPBaseURL, tracer),
		providers.NewNDBCProvider(source),
	}, log, metrics)

	spots, closeSpots, err := newSpotStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSpots()

	service := marine.NewService(source, aggregator, spots)

	sched := scheduler.New(cfg.WarmStations, cfg.WarmInterval, source, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "surfwatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2*cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "surfwatch",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTracer flushes pending spans, logging rather than failing on error.
func shutdownTracer(tp shutdowner, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
}

func newObservationCache(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (feed.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("using in-memory observation cache", "ttl", cfg.CacheTTL, "max_entries", cfg.CacheMaxEntries)
		return cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL, nil), func() {}, nil
	}

	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis observation cache", "ttl", cfg.CacheTTL)
	return cache.NewRedis(client, cfg.CacheTTL, log), func() { _ = client.Close() }, nil
}

func newSpotStore(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (marine.SpotStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres spot catalog")
		return store.NewPostgresStore(pool), pool.Close, nil
	}

	mem := store.NewMemoryStore()
	if cfg.SpotsFile != "" {
		n, err := mem.LoadSpotsFile(cfg.SpotsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info("loaded spots", "file", cfg.SpotsFile, "count", n)
	}
	return mem, func() {}, nil
}
