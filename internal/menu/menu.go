package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
	"github.com/tech5hu/helpdesk-ticket-system/internal/service"
	"github.com/tech5hu/helpdesk-ticket-system/pkg/util"
)

// sensitiveWords trigger a notice when they appear in comments or
// description updates.
var sensitiveWords = []string{"password", "confidential", "breach"}

// Menu drives the interactive text front end over the ticket store.
type Menu struct {
	service *service.TicketService
	in      *bufio.Scanner
	out     io.Writer

	header  *color.Color
	warn    *color.Color
	success *color.Color
	failure *color.Color
}

// New builds a menu reading from in and writing to out.
func New(ticketService *service.TicketService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: ticketService,
		in:      bufio.NewScanner(in),
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		warn:    color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
}

// Run loops until the user quits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, m.header.Sprint("=== Helpdesk Main Menu ==="))
		fmt.Fprintln(m.out, "1. Submit New Ticket")
		fmt.Fprintln(m.out, "2. Edit Ticket")
		fmt.Fprintln(m.out, "3. Comment on Ticket")
		fmt.Fprintln(m.out, "4. Close Ticket")
		fmt.Fprintln(m.out, "5. Escalate Ticket")
		fmt.Fprintln(m.out, "6. View All Tickets")
		fmt.Fprintln(m.out, "7. View Ticket Details")
		fmt.Fprintln(m.out, "8. Delete Ticket")
		fmt.Fprintln(m.out, "9. Quit")

		choice, ok := m.prompt("Select an option: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			m.submitTicket(ctx)
		case "2":
			m.editTicket(ctx)
		case "3":
			m.commentTicket(ctx)
		case "4":
			m.closeTicket(ctx)
		case "5":
			m.escalateTicket(ctx)
		case "6":
			m.viewAll(ctx)
		case "7":
			m.viewDetails(ctx)
		case "8":
			m.deleteTicket(ctx)
		case "9":
			if m.confirm("Are you sure you want to quit? (yes/no): ") {
				fmt.Fprintln(m.out, "Goodbye!")
				return
			}
		default:
			fmt.Fprintln(m.out, "Invalid choice, please select again.")
		}
	}
}

func (m *Menu) submitTicket(ctx context.Context) {
	id, ok := m.prompt("Enter unique numeric ID (blank to auto-assign): ")
	if !ok {
		return
	}
	title, ok := m.prompt("Enter ticket title: ")
	if !ok {
		return
	}
	description, ok := m.prompt("Enter description: ")
	if !ok {
		return
	}
	assignee, ok := m.prompt("Assign to: ")
	if !ok {
		return
	}
	severity, ok := m.prompt("Severity (High, Medium, Low): ")
	if !ok {
		return
	}
	status, ok := m.prompt("Status (Open, In Progress, Closed): ")
	if !ok {
		return
	}

	ticket, err := m.service.Create(ctx, service.TicketCreateInput{
		ID:          id,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		Severity:    severity,
		Status:      status,
	})
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, m.success.Sprintf("Ticket %s added! Predicted category: %s", ticket.ID, ticket.Category))
}

func (m *Menu) editTicket(ctx context.Context) {
	id, ok := m.promptID("Enter the Ticket ID to update: ")
	if !ok {
		return
	}
	ticket, err := m.service.Get(ctx, id)
	if err != nil {
		m.printError(err)
		return
	}
	m.printTicket(ticket)

	field, ok := m.prompt("Field to update (Title, Description, Assignee, Severity, Status, Category): ")
	if !ok {
		return
	}
	value, ok := m.prompt(fmt.Sprintf("Enter new value for %s: ", field))
	if !ok {
		return
	}

	if strings.EqualFold(field, domain.FieldDescription) && containsSensitiveWord(value) {
		fmt.Fprintln(m.out, m.warn.Sprint("Notice: this may involve security information."))
	}

	updated, err := m.service.Update(ctx, id, field, value)
	if err != nil {
		m.printError(err)
		return
	}
	if strings.EqualFold(field, domain.FieldSeverity) && updated.Severity == domain.SeverityHigh {
		fmt.Fprintln(m.out, m.warn.Sprint("Suggestion: consider escalating this ticket."))
	}
	fmt.Fprintln(m.out, m.success.Sprint("Ticket updated successfully."))
}

func (m *Menu) commentTicket(ctx context.Context) {
	id, ok := m.promptID("Enter Ticket ID to comment on: ")
	if !ok {
		return
	}
	content, ok := m.prompt("Enter your comment: ")
	if !ok {
		return
	}
	if containsSensitiveWord(content) {
		fmt.Fprintln(m.out, m.warn.Sprint("Warning: comment may contain sensitive information."))
	}
	if _, err := m.service.AddComment(ctx, id, "CLI User", content); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, m.success.Sprint("Comment added successfully."))
}

func (m *Menu) closeTicket(ctx context.Context) {
	id, ok := m.promptID("Enter Ticket ID to close: ")
	if !ok {
		return
	}
	if _, err := m.service.Close(ctx, id); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, m.success.Sprintf("Ticket %s closed successfully.", id))
}

func (m *Menu) escalateTicket(ctx context.Context) {
	id, ok := m.promptID("Enter Ticket ID to escalate: ")
	if !ok {
		return
	}
	ticket, err := m.service.Get(ctx, id)
	if err != nil {
		m.printError(err)
		return
	}
	if ticket.Severity == domain.SeverityHigh {
		fmt.Fprintln(m.out, m.warn.Sprint("Suggestion: high severity tickets should be assigned to senior staff."))
	}
	assignee, ok := m.prompt("Enter new assignee: ")
	if !ok {
		return
	}
	if _, err := m.service.Escalate(ctx, id, assignee); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, m.success.Sprintf("Ticket %s escalated successfully.", id))
}

func (m *Menu) viewAll(ctx context.Context) {
	tickets, err := m.service.List(ctx, service.TicketFilter{Sort: service.SortByID})
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.header.Sprint("=== All Tickets ==="))
	for _, t := range tickets {
		line := fmt.Sprintf("%s | %s | %s | %s | %s", t.ID, t.Title, t.Status, t.Assignee, t.Severity)
		if t.Severity == domain.SeverityHigh {
			line = m.failure.Sprint(line)
		}
		fmt.Fprintln(m.out, line)
	}
}

func (m *Menu) viewDetails(ctx context.Context) {
	id, ok := m.promptID("Enter the Ticket ID: ")
	if !ok {
		return
	}
	ticket, err := m.service.Get(ctx, id)
	if err != nil {
		m.printError(err)
		return
	}
	m.printTicket(ticket)
	if ticket.Severity == domain.SeverityHigh {
		fmt.Fprintln(m.out, m.failure.Sprint("This is a HIGH severity ticket."))
	}
}

func (m *Menu) deleteTicket(ctx context.Context) {
	id, ok := m.promptID("Enter the Ticket ID to delete: ")
	if !ok {
		return
	}
	ticket, err := m.service.Get(ctx, id)
	if err != nil {
		m.printError(err)
		return
	}
	if ticket.Severity == domain.SeverityHigh {
		fmt.Fprintln(m.out, m.warn.Sprint("Warning: this is a HIGH severity ticket."))
	}
	if !m.confirm(fmt.Sprintf("Delete ticket '%s'? (yes/no): ", ticket.Title)) {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return
	}
	if err := m.service.Delete(ctx, id); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, m.success.Sprint("Ticket deleted successfully."))
}

func (m *Menu) printTicket(t *domain.Ticket) {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.header.Sprint("=== Ticket Details ==="))
	fmt.Fprintf(m.out, "ID: %s\n", t.ID)
	fmt.Fprintf(m.out, "Title: %s\n", t.Title)
	fmt.Fprintf(m.out, "Description: %s\n", t.Description)
	fmt.Fprintf(m.out, "Assignee: %s\n", t.Assignee)
	fmt.Fprintf(m.out, "Severity: %s\n", t.Severity)
	fmt.Fprintf(m.out, "Status: %s\n", t.Status)
	fmt.Fprintf(m.out, "Category: %s\n", t.Category)
	fmt.Fprintf(m.out, "Submitted: %s\n", t.SubmittedAt.Format("02/01/2006 15:04:05"))
	fmt.Fprintln(m.out, "Comments:")
	for _, comment := range t.Comments {
		fmt.Fprintf(m.out, " - [%s] %s: %s\n", comment.Timestamp.Format("02/01/2006 15:04:05"), comment.Author, comment.Content)
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptID re-prompts until the input is a well-formed numeric ID, the
// same shape check the store applies.
func (m *Menu) promptID(label string) (string, bool) {
	for {
		id, ok := m.prompt(label)
		if !ok {
			return "", false
		}
		if domain.IsValidID(id) {
			return id, true
		}
		fmt.Fprintln(m.out, "Invalid Ticket ID.")
	}
}

func (m *Menu) confirm(label string) bool {
	answer, ok := m.prompt(label)
	return ok && strings.EqualFold(answer, "yes")
}

func (m *Menu) printError(err error) {
	domainErr := util.ToDomainError(err)
	fmt.Fprintln(m.out, m.failure.Sprint(domainErr.Message))
}

func containsSensitiveWord(s string) bool {
	lowered := strings.ToLower(s)
	for _, word := range sensitiveWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
