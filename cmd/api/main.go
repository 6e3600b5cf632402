package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sr-service/internal/api/http"
	"github.com/spec-kit/sr-service/internal/api/http/handlers"
	"github.com/spec-kit/sr-service/internal/config"
	"github.com/spec-kit/sr-service/internal/events"
	"github.com/spec-kit/sr-service/internal/mirror"
	"github.com/spec-kit/sr-service/internal/observability"
	"github.com/spec-kit/sr-service/internal/persistence"
	"github.com/spec-kit/sr-service/internal/repository"
	"github.com/spec-kit/sr-service/internal/service"
	"github.com/spec-kit/sr-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	notion := mirror.NewClient(mirror.Config{
		BaseURL:    cfg.Notion.BaseURL,
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
		Version:    cfg.Notion.Version,
		Timeout:    cfg.Notion.Timeout(),
		Logger:     logger.Named("notion"),
	})
	if !notion.Configured() {
		logger.Warn("NOTION_DB_ID not set; ticket submission will fail until it is configured")
	}
	if !notion.HasCredentials() {
		logger.Warn("NOTION_TOKEN not set; person fields will be stored as text")
	}

	var directoryCache mirror.UserCache
	if redis.Enabled() && cfg.Notion.DirectoryCacheTTL() > 0 {
		directoryCache = mirror.NewRedisUserCache(redis.Client, cfg.Notion.DirectoryCacheTTL())
	}
	directory := mirror.NewDirectory(notion, directoryCache, logger)
	ticketMirror := mirror.NewMirror(notion, directory, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pg.PoolHandle()),
		Mirror:     ticketMirror,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout() + 15*time.Second,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	var redisPinger handlers.Pinger
	if redis.Enabled() {
		redisPinger = redis
	}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, notion.Configured()),
		Metrics: handlers.NewMetricsHandler(metrics),
		Tickets: handlers.NewTicketsHandler(ticketService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
