package domain

import "time"

// Severity enumerates ticket urgency.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Status enumerates lifecycle states for tickets. Closed is terminal:
// no operation reopens a closed ticket.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// Category enumerates the fixed classification set.
type Category string

const (
	CategoryHardware Category = "Hardware"
	CategorySoftware Category = "Software"
	CategoryNetwork  Category = "Network"
	CategorySecurity Category = "Security"
)

// Field names as they appear in the persisted table and the update API.
const (
	FieldID          = "ID"
	FieldTitle       = "Title"
	FieldDescription = "Description"
	FieldAssignee    = "Assignee"
	FieldSeverity    = "Severity"
	FieldStatus      = "Status"
	FieldCategory    = "Category"
)

// Comment is an entry in a ticket's append-only comment log. Comments have
// no identity of their own and are never edited or removed.
type Comment struct {
	Author    string
	Timestamp time.Time
	Content   string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Assignee    string
	Severity    Severity
	Status      Status
	Category    Category
	SubmittedAt time.Time
	Comments    []Comment
}

// Clone returns a deep copy so callers can never mutate store state through
// a returned record.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	copied := *t
	copied.Comments = make([]Comment, len(t.Comments))
	copy(copied.Comments, t.Comments)
	return &copied
}

// SeverityRank orders severities for display prominence: High first.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// CanTransition reports whether the status state machine permits moving
// from current to next. Open and In Progress move freely between each
// other and into Closed; Closed accepts nothing.
func CanTransition(current, next Status) bool {
	if current == StatusClosed {
		return false
	}
	return next == StatusOpen || next == StatusInProgress || next == StatusClosed
}
