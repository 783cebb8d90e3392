package worker

import (
	"context"

	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/internal/observability"
	"github.com/tech5hu/helpdesk-ticket-system/internal/service"
)

// StartAuditWorker registers audit event handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

// StartMetricsWorker counts every ticket store operation, keyed by event
// type, so the metrics endpoint sees mutations from all front ends.
func StartMetricsWorker(dispatcher events.Dispatcher, metrics *observability.Metrics) {
	if dispatcher == nil || metrics == nil {
		return
	}
	dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		metrics.RecordOperation(string(event.Type))
		return nil
	})
}
