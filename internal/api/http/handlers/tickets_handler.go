package handlers

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-desk/internal/api/dto"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/service"
	apperrors "github.com/spec-kit/service-desk/pkg/errorutil"
)

const ticketDeletedMessage = "Ticket deleted"

// TicketsHandler manages the ticket CRUD endpoints.
type TicketsHandler struct {
	service *service.ServiceDesk
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(desk *service.ServiceDesk) *TicketsHandler {
	return &TicketsHandler{service: desk}
}

// CreateTicket POST /ticket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := dto.CreateTicketSchema.Decode(c.Body(), &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, ok, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !ok {
		return ticketNotFound(id)
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// UpdateTicket PUT /tickets/:id. A body that sets no field is rejected here,
// before the service desk is called.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	var req dto.UpdateTicketRequest
	if err := dto.UpdateTicketSchema.Decode(body, &req); err != nil {
		return err
	}
	patch := req.Patch()
	if patch.IsEmpty() {
		return apperrors.NewBadRequest("No fields to update")
	}

	ticket, ok, err := h.service.UpdateTicket(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	if !ok {
		return ticketNotFound(id)
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	deleted, err := h.service.DeleteTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return ticketNotFound(id)
	}
	return c.JSON(dto.TicketDeletedResponse{ID: id, Message: ticketDeletedMessage})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, ticketNotFound(raw)
	}
	if err != nil {
		return 0, apperrors.NewValidationError("ticket id must be an integer", map[string]any{"id": raw})
	}
	// Ids the column cannot hold name no ticket.
	if !domain.TicketIDInRange(id) {
		return 0, ticketNotFound(id)
	}
	return id, nil
}

func ticketNotFound(id any) error {
	return apperrors.NewNotFound("Ticket", map[string]any{"id": id})
}
