package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/tech5hu/helpdesk-ticket-system/internal/classify"
	"github.com/tech5hu/helpdesk-ticket-system/internal/config"
	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/internal/menu"
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

	// the menu owns stdout; keep logs terse and off that stream
	cfg.Logger.Level = "error"
	cfg.Logger.Format = "console"
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

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

	menu.New(ticketService, os.Stdin, os.Stdout).Run(ctx)

	if err := ticketService.Persist(ctx); err != nil {
		logger.Error("final persist failed", zap.Error(err))
	}
}
