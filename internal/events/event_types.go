package events

import (
	"time"

	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketFieldUpdated EventType = "ticket_field_updated"
	EventTicketCommented    EventType = "ticket_commented"
	EventTicketClosed       EventType = "ticket_closed"
	EventTicketEscalated    EventType = "ticket_escalated"
	EventTicketDeleted      EventType = "ticket_deleted"
)

// AllEventTypes lists every event the ticket store emits.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketFieldUpdated,
	EventTicketCommented,
	EventTicketClosed,
	EventTicketEscalated,
	EventTicketDeleted,
}

// Event represents a change emitted by the ticket store. The store only
// emits; formatting and durable appending belong to subscribers.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string          `json:"title"`
	Assignee string          `json:"assignee"`
	Severity domain.Severity `json:"severity"`
	Category domain.Category `json:"category"`
}

// TicketFieldUpdatedPayload payload.
type TicketFieldUpdatedPayload struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	Author         string `json:"author"`
	ContentPreview string `json:"content_preview"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	OldStatus domain.Status `json:"old_status"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	OldAssignee string `json:"old_assignee"`
	NewAssignee string `json:"new_assignee"`
}

// TicketDeletedPayload carries the removed record in full so a subscriber
// can audit or reconstruct it; the store itself implements no undo.
type TicketDeletedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}
