package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/internal/service"
)

type discardCodec struct{}

func (discardCodec) LoadAll() ([]*domain.Ticket, error) { return nil, nil }
func (discardCodec) SaveAll(_ []*domain.Ticket) error   { return nil }

func newMenuService(t *testing.T) *service.TicketService {
	t.Helper()
	return service.NewTicketService(service.TicketDependencies{
		Codec:      discardCodec{},
		Dispatcher: events.NewInMemoryDispatcher(nil),
	})
}

func runScript(t *testing.T, svc *service.TicketService, lines ...string) string {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n"
	var out bytes.Buffer
	New(svc, strings.NewReader(input), &out).Run(context.Background())
	return out.String()
}

func TestMenuSubmitAndViewTicket(t *testing.T) {
	t.Parallel()

	svc := newMenuService(t)
	// option 1 submit, details, then option 7 view, then quit
	output := runScript(t, svc,
		"1",
		"101",
		"Cannot login to account",
		"Password rejected",
		"Olivia",
		"high",
		"open",
		"7",
		"101",
		"9", "yes",
	)

	assert.Contains(t, output, "Ticket 101 added! Predicted category: Security")
	assert.Contains(t, output, "=== Ticket Details ===")
	assert.Contains(t, output, "This is a HIGH severity ticket.")
	assert.Contains(t, output, "Goodbye!")

	ticket, err := svc.Get(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySecurity, ticket.Category)
}

func TestMenuRejectsBadIDThenAccepts(t *testing.T) {
	t.Parallel()

	svc := newMenuService(t)
	_, err := svc.Create(context.Background(), service.TicketCreateInput{
		ID: "101", Title: "t", Description: "d", Assignee: "Ryan",
	})
	require.NoError(t, err)

	// close with a malformed ID first; the prompt retries
	output := runScript(t, svc,
		"4",
		"abc",
		"101",
		"9", "yes",
	)
	assert.Contains(t, output, "Invalid Ticket ID.")
	assert.Contains(t, output, "Ticket 101 closed successfully.")

	ticket, err := svc.Get(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, ticket.Status)
}

func TestMenuDeleteNeedsConfirmation(t *testing.T) {
	t.Parallel()

	svc := newMenuService(t)
	_, err := svc.Create(context.Background(), service.TicketCreateInput{
		ID: "101", Title: "t", Description: "d", Assignee: "Ryan",
	})
	require.NoError(t, err)

	output := runScript(t, svc,
		"8", "101", "no",
		"8", "101", "yes",
		"9", "yes",
	)
	assert.Contains(t, output, "Deletion cancelled.")
	assert.Contains(t, output, "Ticket deleted successfully.")

	_, err = svc.Get(context.Background(), "101")
	require.Error(t, err)
}

func TestMenuSensitiveCommentWarning(t *testing.T) {
	t.Parallel()

	svc := newMenuService(t)
	_, err := svc.Create(context.Background(), service.TicketCreateInput{
		ID: "101", Title: "t", Description: "d", Assignee: "Ryan",
	})
	require.NoError(t, err)

	output := runScript(t, svc,
		"3", "101", "the password is hunter2",
		"9", "yes",
	)
	assert.Contains(t, output, "Warning: comment may contain sensitive information.")
	assert.Contains(t, output, "Comment added successfully.")

	ticket, err := svc.Get(context.Background(), "101")
	require.NoError(t, err)
	require.Len(t, ticket.Comments, 1)
	assert.Equal(t, "CLI User", ticket.Comments[0].Author)
}
