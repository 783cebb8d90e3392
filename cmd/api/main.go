package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tech5hu/helpdesk-ticket-system/internal/api/http"
	"github.com/tech5hu/helpdesk-ticket-system/internal/api/http/handlers"
	"github.com/tech5hu/helpdesk-ticket-system/internal/classify"
	"github.com/tech5hu/helpdesk-ticket-system/internal/config"
	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/internal/observability"
	"github.com/tech5hu/helpdesk-ticket-system/internal/persistence"
	"github.com/tech5hu/helpdesk-ticket-system/internal/service"
	"github.com/tech5hu/helpdesk-ticket-system/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	codec := persistence.NewCSVStore(cfg.Storage, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Codec:      codec,
		Classifier: classify.NewKeywordClassifier(),
		Dispatcher: dispatcher,
	})
	if err := ticketService.Load(ctx); err != nil {
		logger.Fatal("failed to load ticket table", zap.Error(err))
	}

	auditService := service.NewAuditService(dispatcher, logger, cfg.Storage, redis)
	worker.StartAuditWorker(auditService)

	metrics := observability.NewMetrics()
	worker.StartMetricsWorker(dispatcher, metrics)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.DataFile, redis, metrics)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if err := ticketService.Persist(ctx); err != nil {
		logger.Error("final persist failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
