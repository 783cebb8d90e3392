package handlers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tech5hu/helpdesk-ticket-system/internal/api/dto"
	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
	"github.com/tech5hu/helpdesk-ticket-system/internal/service"
	"github.com/tech5hu/helpdesk-ticket-system/pkg/util"
)

// TicketsHandler exposes the ticket store over HTTP.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Dashboard GET /.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.Context(), service.TicketFilter{Sort: service.SortByID})
	if err != nil {
		return err
	}
	// newest first, then the visible slice ordered by severity prominence
	for i, j := 0, len(tickets)-1; i < j; i, j = i+1, j-1 {
		tickets[i], tickets[j] = tickets[j], tickets[i]
	}
	if len(tickets) > 5 {
		tickets = tickets[:5]
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return domain.SeverityRank(tickets[i].Severity) < domain.SeverityRank(tickets[j].Severity)
	})

	stats := h.service.Stats(c.Context())
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	bySeverity := make(map[string]int, len(stats.BySeverity))
	for severity, count := range stats.BySeverity {
		bySeverity[string(severity)] = count
	}

	recent := make([]dto.TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		recent = append(recent, ticketSummary(ticket))
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:      stats.Total,
		ByStatus:   byStatus,
		BySeverity: bySeverity,
		Recent:     recent,
	}})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketFilter{
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
	}
	switch strings.ToLower(c.Query("sort")) {
	case "id":
		filter.Sort = service.SortByID
	case "severity":
		filter.Sort = service.SortBySeverity
	}
	tickets, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, ticketSummary(ticket))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.Context(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Severity:    req.Severity,
		Status:      req.Status,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.Context(), c.Params("id"), req.Field, req.NewValue)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = "Web User"
	}
	ticket, err := h.service.AddComment(c.Context(), c.Params("id"), author, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Close(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// EscalateTicket POST /tickets/:id/escalate.
func (h *TicketsHandler) EscalateTicket(c *fiber.Ctx) error {
	var req dto.EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Escalate(c.Context(), c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// DeleteTicket DELETE /tickets/:id. Deletion is irreversible, so the
// request must carry confirm=yes.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	var req dto.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		req.Confirm = c.Query("confirm")
	}
	if req.Confirm == "" {
		req.Confirm = c.Query("confirm")
	}
	if !strings.EqualFold(strings.TrimSpace(req.Confirm), "yes") {
		return util.NewValidationError("deletion requires confirm=yes", nil)
	}
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": c.Params("id")}})
}

// ListAssignees GET /assignees, used to populate form dropdowns.
func (h *TicketsHandler) ListAssignees(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Assignees(c.Context())})
}

func ticketSummary(t *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          t.ID,
		Title:       t.Title,
		Assignee:    t.Assignee,
		Severity:    t.Severity,
		Status:      t.Status,
		Category:    t.Category,
		SubmittedAt: t.SubmittedAt,
	}
}

func ticketDetail(t *domain.Ticket) dto.TicketDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(t.Comments))
	for _, comment := range t.Comments {
		comments = append(comments, dto.CommentResponse{
			Author:    comment.Author,
			Timestamp: comment.Timestamp,
			Content:   comment.Content,
		})
	}
	return dto.TicketDetailResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Assignee:    t.Assignee,
		Severity:    t.Severity,
		Status:      t.Status,
		Category:    t.Category,
		SubmittedAt: t.SubmittedAt,
		Comments:    comments,
	}
}
