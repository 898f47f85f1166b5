package domain

import (
	"math"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusDone       TicketStatus = "done"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in declaration order.
var TicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusInProgress,
	TicketStatusDone,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusDone, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketPriorities lists every priority in declaration order.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TitleMaxLength matches the width of the title column.
const TitleMaxLength = 255

// MaxTicketID is the largest id the INTEGER id column can hold.
const MaxTicketID = math.MaxInt32

// TicketIDInRange reports whether id could name a stored ticket.
func TicketIDInRange(id int64) bool {
	return id >= 1 && id <= MaxTicketID
}

// Ticket is a support request.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketPatch carries the fields of a partial update. Only fields with
// Set == true are written.
type TicketPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[TicketStatus]
	Priority    Optional[TicketPriority]
}

// IsEmpty reports whether the patch changes nothing.
func (p TicketPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Status.Set && !p.Priority.Set
}

// Fields returns the column names the patch touches.
func (p TicketPatch) Fields() []string {
	fields := make([]string, 0, 4)
	if p.Title.Set {
		fields = append(fields, "title")
	}
	if p.Description.Set {
		fields = append(fields, "description")
	}
	if p.Status.Set {
		fields = append(fields, "status")
	}
	if p.Priority.Set {
		fields = append(fields, "priority")
	}
	return fields
}

// Apply writes the set fields onto t. UpdatedAt is left to the caller.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
}
