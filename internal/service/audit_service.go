package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tech5hu/helpdesk-ticket-system/internal/config"
	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/internal/persistence"
)

// AuditService consumes store change events and appends them to the audit
// log, optionally fanning them out to a Redis channel. The ticket store
// itself never writes logs; it only emits events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	logPath    string
	redis      *persistence.Redis
}

// NewAuditService creates the service. redis may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.StorageConfig, redis *persistence.Redis) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		logPath:    cfg.AuditLogFile,
		redis:      redis,
	}
}

// RegisterHandlers subscribes to every store event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.SubscribeAll(a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	line := a.formatLine(event)
	if err := a.appendLine(line); err != nil {
		a.logger.Error("audit append failed", zap.Error(err), zap.String("ticket_id", event.TicketID))
	}
	a.publishRedis(ctx, event)
	return nil
}

// formatLine renders one human-readable audit entry.
func (a *AuditService) formatLine(event events.Event) string {
	stamp := event.Timestamp.Format("2006-01-02 15:04:05")
	var detail string
	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		detail = fmt.Sprintf("created '%s' (Severity %s, Category %s, assigned to %s)",
			payload.Title, payload.Severity, payload.Category, payload.Assignee)
	case events.TicketFieldUpdatedPayload:
		detail = fmt.Sprintf("%s changed from '%s' to '%s'",
			payload.Field, payload.OldValue, payload.NewValue)
	case events.TicketCommentedPayload:
		detail = fmt.Sprintf("comment added by %s", payload.Author)
	case events.TicketClosedPayload:
		detail = fmt.Sprintf("closed (was %s)", payload.OldStatus)
	case events.TicketEscalatedPayload:
		detail = fmt.Sprintf("escalated from %s to %s", payload.OldAssignee, payload.NewAssignee)
	case events.TicketDeletedPayload:
		detail = fmt.Sprintf("deleted ('%s', Severity %s)", payload.Ticket.Title, payload.Ticket.Severity)
	default:
		detail = string(event.Type)
	}
	return fmt.Sprintf("[%s] Ticket %s: %s\n", stamp, event.TicketID, detail)
}

func (a *AuditService) appendLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(a.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

func (a *AuditService) publishRedis(ctx context.Context, event events.Event) {
	if a.redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("audit event marshal failed", zap.Error(err))
		return
	}
	if err := a.redis.Publish(ctx, payload); err != nil {
		a.logger.Warn("audit redis publish failed", zap.Error(err))
	}
}
