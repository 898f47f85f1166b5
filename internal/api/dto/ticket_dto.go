package dto

import (
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
)

// CreateTicketRequest payload for POST /ticket.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest payload for PUT /tickets/:id. Keys that are absent
// from the body stay unset.
type UpdateTicketRequest struct {
	Title       domain.Optional[string]                `json:"title"`
	Description domain.Optional[string]                `json:"description"`
	Status      domain.Optional[domain.TicketStatus]   `json:"status"`
	Priority    domain.Optional[domain.TicketPriority] `json:"priority"`
}

// Patch converts the request into a domain patch.
func (r UpdateTicketRequest) Patch() domain.TicketPatch {
	return domain.TicketPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
	}
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDeletedResponse confirms a deletion.
type TicketDeletedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
