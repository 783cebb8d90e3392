package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tech5hu/helpdesk-ticket-system/internal/classify"
	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
	"github.com/tech5hu/helpdesk-ticket-system/internal/events"
	"github.com/tech5hu/helpdesk-ticket-system/pkg/util"
)

// Codec persists the full ticket table. SaveAll rewrites the table in the
// given order; LoadAll returns rows in file order.
type Codec interface {
	LoadAll() ([]*domain.Ticket, error)
	SaveAll(tickets []*domain.Ticket) error
}

// TicketService owns the in-memory ticket table and enforces every
// invariant on it. All mutations run under one lock spanning validation,
// mutation and persistence; reads return deep copies.
type TicketService struct {
	mu         sync.RWMutex
	tickets    map[string]*domain.Ticket
	order      []string
	lastID     int
	codec      Codec
	classifier classify.Classifier
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Codec      Codec
	Classifier classify.Classifier
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. ID is optional:
// empty means the store assigns the next unused numeric ID.
type TicketCreateInput struct {
	ID          string
	Title       string
	Description string
	Assignee    string
	Severity    string
	Status      string
	Category    string
}

// SortMode selects listing order.
type SortMode int

const (
	SortInsertion SortMode = iota
	SortByID
	SortBySeverity
)

// TicketFilter narrows and orders List results. Empty values match all.
type TicketFilter struct {
	Status   string
	Severity string
	Sort     SortMode
}

// Stats summarizes the table for dashboards.
type Stats struct {
	Total      int
	ByStatus   map[domain.Status]int
	BySeverity map[domain.Severity]int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = classify.NewKeywordClassifier()
	}
	return &TicketService{
		tickets:    make(map[string]*domain.Ticket),
		codec:      deps.Codec,
		classifier: classifier,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Load populates the table from the codec. Called once at startup before
// the service is handed to any front end.
func (s *TicketService) Load(ctx context.Context) error {
	loaded, err := s.codec.LoadAll()
	if err != nil {
		return util.NewIOFailure(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make(map[string]*domain.Ticket, len(loaded))
	s.order = s.order[:0]
	s.lastID = 0
	for _, t := range loaded {
		s.tickets[t.ID] = t
		s.order = append(s.order, t.ID)
		s.raiseLastIDLocked(t.ID)
	}
	return nil
}

// Create validates the input and adds a new ticket to the table.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	assignee := strings.TrimSpace(input.Assignee)

	missing := domain.MissingFields(map[string]string{
		domain.FieldTitle:       title,
		domain.FieldDescription: description,
		domain.FieldAssignee:    assignee,
	}, []string{domain.FieldTitle, domain.FieldDescription, domain.FieldAssignee})
	if len(missing) > 0 {
		return nil, util.NewMissingFields(missing)
	}

	severity := domain.SeverityMedium
	if strings.TrimSpace(input.Severity) != "" {
		parsed, ok := domain.ParseSeverity(input.Severity)
		if !ok {
			return nil, util.NewInvalidField(domain.FieldSeverity, input.Severity)
		}
		severity = parsed
	}
	status := domain.StatusOpen
	if strings.TrimSpace(input.Status) != "" {
		parsed, ok := domain.ParseStatus(input.Status)
		if !ok {
			return nil, util.NewInvalidField(domain.FieldStatus, input.Status)
		}
		status = parsed
	}

	var category domain.Category
	if strings.TrimSpace(input.Category) != "" {
		parsed, ok := domain.ParseCategory(input.Category)
		if !ok {
			return nil, util.NewInvalidField(domain.FieldCategory, input.Category)
		}
		category = parsed
	} else {
		predicted, err := s.classifier.Classify(ctx, title)
		if err != nil {
			predicted = domain.CategorySoftware
		}
		category = predicted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(input.ID)
	if id != "" {
		if !domain.IsValidID(id) {
			return nil, util.NewInvalidID(id)
		}
		if _, exists := s.tickets[id]; exists {
			return nil, util.NewDuplicateID(id)
		}
		s.raiseLastIDLocked(id)
	} else {
		id = s.nextIDLocked()
	}

	ticket := &domain.Ticket{
		ID:          id,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		Severity:    severity,
		Status:      status,
		Category:    category,
		SubmittedAt: s.now(),
		Comments:    []domain.Comment{},
	}
	s.tickets[id] = ticket
	s.order = append(s.order, id)

	if err := s.persistLocked(); err != nil {
		return ticket.Clone(), err
	}
	s.emit(ctx, events.EventTicketCreated, id, events.TicketCreatedPayload{
		Title:    ticket.Title,
		Assignee: ticket.Assignee,
		Severity: ticket.Severity,
		Category: ticket.Category,
	})
	return ticket.Clone(), nil
}

// Get returns a copy of the ticket with the given ID.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound(id)
	}
	return ticket.Clone(), nil
}

// Update changes a single mutable field on an open ticket. Severity,
// Status and Category values are normalized to their canonical spelling.
func (s *TicketService) Update(ctx context.Context, id, field, newValue string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound(id)
	}
	if ticket.Status == domain.StatusClosed {
		return nil, util.NewTicketClosed(id)
	}

	canonical, known := domain.CanonicalField(field)
	if known && canonical == domain.FieldID {
		return nil, util.NewImmutableField(domain.FieldID)
	}
	if !known {
		return nil, util.NewUnknownField(field)
	}

	value := strings.TrimSpace(newValue)
	if value == "" {
		return nil, util.NewEmptyValue(canonical)
	}

	oldValue := fieldValue(ticket, canonical)
	switch canonical {
	case domain.FieldSeverity:
		parsed, ok := domain.ParseSeverity(value)
		if !ok {
			return nil, util.NewInvalidField(canonical, value)
		}
		ticket.Severity = parsed
	case domain.FieldStatus:
		parsed, ok := domain.ParseStatus(value)
		if !ok {
			return nil, util.NewInvalidField(canonical, value)
		}
		if !domain.CanTransition(ticket.Status, parsed) {
			return nil, util.NewTicketClosed(id)
		}
		ticket.Status = parsed
	case domain.FieldCategory:
		parsed, ok := domain.ParseCategory(value)
		if !ok {
			return nil, util.NewInvalidField(canonical, value)
		}
		ticket.Category = parsed
	case domain.FieldTitle:
		ticket.Title = value
	case domain.FieldDescription:
		ticket.Description = value
	case domain.FieldAssignee:
		ticket.Assignee = value
	}

	if err := s.persistLocked(); err != nil {
		return ticket.Clone(), err
	}
	s.emit(ctx, events.EventTicketFieldUpdated, id, events.TicketFieldUpdatedPayload{
		Field:    canonical,
		OldValue: oldValue,
		NewValue: fieldValue(ticket, canonical),
	})
	return ticket.Clone(), nil
}

// Close marks the ticket Closed. Closing an already closed ticket is a
// no-op, not an error.
func (s *TicketService) Close(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound(id)
	}
	if ticket.Status == domain.StatusClosed {
		return ticket.Clone(), nil
	}

	oldStatus := ticket.Status
	ticket.Status = domain.StatusClosed
	if err := s.persistLocked(); err != nil {
		return ticket.Clone(), err
	}
	s.emit(ctx, events.EventTicketClosed, id, events.TicketClosedPayload{OldStatus: oldStatus})
	return ticket.Clone(), nil
}

// Escalate reassigns the ticket and forces Severity High, Status In
// Progress. The three fields change together: a persistence failure rolls
// all of them back.
func (s *TicketService) Escalate(ctx context.Context, id, newAssignee string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound(id)
	}
	if ticket.Status == domain.StatusClosed {
		return nil, util.NewTicketClosed(id)
	}
	assignee := strings.TrimSpace(newAssignee)
	if assignee == "" {
		return nil, util.NewEmptyValue(domain.FieldAssignee)
	}

	oldAssignee := ticket.Assignee
	oldSeverity := ticket.Severity
	oldStatus := ticket.Status

	ticket.Assignee = assignee
	ticket.Severity = domain.SeverityHigh
	ticket.Status = domain.StatusInProgress

	if err := s.persistLocked(); err != nil {
		ticket.Assignee = oldAssignee
		ticket.Severity = oldSeverity
		ticket.Status = oldStatus
		return nil, err
	}
	s.emit(ctx, events.EventTicketEscalated, id, events.TicketEscalatedPayload{
		OldAssignee: oldAssignee,
		NewAssignee: assignee,
	})
	return ticket.Clone(), nil
}

// AddComment appends to the ticket's comment log. Commenting on closed
// tickets is allowed; comments are never edited or removed afterwards.
func (s *TicketService) AddComment(ctx context.Context, id, author, content string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound(id)
	}
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, util.NewEmptyValue("Comment")
	}

	ticket.Comments = append(ticket.Comments, domain.Comment{
		Author:    strings.TrimSpace(author),
		Timestamp: s.now(),
		Content:   text,
	})

	if err := s.persistLocked(); err != nil {
		return ticket.Clone(), err
	}
	s.emit(ctx, events.EventTicketCommented, id, events.TicketCommentedPayload{
		Author:         strings.TrimSpace(author),
		ContentPreview: stringPreview(text, 120),
	})
	return ticket.Clone(), nil
}

// Delete removes the ticket from the table and the persisted file. The
// emitted event carries the removed record in full.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return util.NewNotFound(id)
	}
	removed := ticket.Clone()
	delete(s.tickets, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.emit(ctx, events.EventTicketDeleted, id, events.TicketDeletedPayload{Ticket: *removed})
	return nil
}

// List returns a snapshot of tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error) {
	var statusFilter domain.Status
	if filter.Status != "" {
		parsed, ok := domain.ParseStatus(filter.Status)
		if !ok {
			return nil, util.NewInvalidField(domain.FieldStatus, filter.Status)
		}
		statusFilter = parsed
	}
	var severityFilter domain.Severity
	if filter.Severity != "" {
		parsed, ok := domain.ParseSeverity(filter.Severity)
		if !ok {
			return nil, util.NewInvalidField(domain.FieldSeverity, filter.Severity)
		}
		severityFilter = parsed
	}

	s.mu.RLock()
	result := make([]*domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		ticket := s.tickets[id]
		if statusFilter != "" && ticket.Status != statusFilter {
			continue
		}
		if severityFilter != "" && ticket.Severity != severityFilter {
			continue
		}
		result = append(result, ticket.Clone())
	}
	s.mu.RUnlock()

	switch filter.Sort {
	case SortByID:
		sort.Slice(result, func(i, j int) bool {
			a, _ := strconv.Atoi(result[i].ID)
			b, _ := strconv.Atoi(result[j].ID)
			return a < b
		})
	case SortBySeverity:
		sort.SliceStable(result, func(i, j int) bool {
			return domain.SeverityRank(result[i].Severity) < domain.SeverityRank(result[j].Severity)
		})
	}
	return result, nil
}

// Assignees returns the distinct assignees currently in the table, sorted.
func (s *TicketService) Assignees(ctx context.Context) []string {
	s.mu.RLock()
	set := make(map[string]struct{})
	for _, ticket := range s.tickets {
		set[ticket.Assignee] = struct{}{}
	}
	s.mu.RUnlock()

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats counts tickets by status and severity.
func (s *TicketService) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{
		Total:      len(s.tickets),
		ByStatus:   make(map[domain.Status]int),
		BySeverity: make(map[domain.Severity]int),
	}
	for _, ticket := range s.tickets {
		stats.ByStatus[ticket.Status]++
		stats.BySeverity[ticket.Severity]++
	}
	return stats
}

// Persist rewrites the backing file from current memory state. Used at
// shutdown so the final table is durable even if the last mutation's write
// failed.
func (s *TicketService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// SetNow overrides the clock. Intended for tests.
func (s *TicketService) SetNow(now func() time.Time) {
	s.now = now
}

// nextIDLocked assigns the next integer ID at or above 100. lastID is a
// high-water mark over every ID ever loaded or created, so deleted IDs are
// never handed out again.
func (s *TicketService) nextIDLocked() string {
	next := s.lastID + 1
	if next < 100 {
		next = 100
	}
	s.lastID = next
	return strconv.Itoa(next)
}

func (s *TicketService) raiseLastIDLocked(id string) {
	if n, err := strconv.Atoi(id); err == nil && n > s.lastID {
		s.lastID = n
	}
}

func (s *TicketService) persistLocked() error {
	snapshot := make([]*domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.tickets[id])
	}
	if err := s.codec.SaveAll(snapshot); err != nil {
		return util.NewIOFailure(err)
	}
	return nil
}

func (s *TicketService) emit(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func fieldValue(t *domain.Ticket, field string) string {
	switch field {
	case domain.FieldTitle:
		return t.Title
	case domain.FieldDescription:
		return t.Description
	case domain.FieldAssignee:
		return t.Assignee
	case domain.FieldSeverity:
		return string(t.Severity)
	case domain.FieldStatus:
		return string(t.Status)
	case domain.FieldCategory:
		return string(t.Category)
	}
	return ""
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
