package dto

import (
	"time"

	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
)

// CreateTicketRequest payload. ID is omitted on the web surface; the store
// assigns the next free numeric ID.
type CreateTicketRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Assignee    string `json:"assignee" form:"assignee"`
	Severity    string `json:"severity" form:"severity"`
	Status      string `json:"status" form:"status"`
	Category    string `json:"category" form:"category"`
}

// UpdateTicketRequest changes one field.
type UpdateTicketRequest struct {
	Field    string `json:"field" form:"field"`
	NewValue string `json:"new_value" form:"new_value"`
}

// CommentRequest payload.
type CommentRequest struct {
	Author  string `json:"author" form:"author"`
	Content string `json:"content" form:"content"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	Assignee string `json:"assignee" form:"assignee"`
}

// DeleteRequest carries the explicit confirmation.
type DeleteRequest struct {
	Confirm string `json:"confirm" form:"confirm"`
}

// CommentResponse is one entry of the comment log.
type CommentResponse struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// TicketSummary response for listings.
type TicketSummary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Assignee    string          `json:"assignee"`
	Severity    domain.Severity `json:"severity"`
	Status      domain.Status   `json:"status"`
	Category    domain.Category `json:"category"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Assignee    string            `json:"assignee"`
	Severity    domain.Severity   `json:"severity"`
	Status      domain.Status     `json:"status"`
	Category    domain.Category   `json:"category"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Comments    []CommentResponse `json:"comments"`
}

// DashboardResponse backs the home view: totals plus the most recent
// tickets ordered by severity prominence.
type DashboardResponse struct {
	Total      int             `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
	BySeverity map[string]int  `json:"by_severity"`
	Recent     []TicketSummary `json:"recent"`
}
