package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/events"
	"github.com/spec-kit/service-desk/internal/repository"
	apperrors "github.com/spec-kit/service-desk/pkg/errorutil"
)

// ServiceDesk owns the default-value and partial-update policy for tickets.
type ServiceDesk struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the service desk.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// TicketCreateInput describes ticket creation payload. Empty fields take
// their defaults.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
}

// NewServiceDesk constructs the service.
func NewServiceDesk(deps TicketDependencies) *ServiceDesk {
	s := &ServiceDesk{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateTicket persists a new ticket and returns it with its store-assigned
// id and timestamps.
func (s *ServiceDesk) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusNew
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if err := validateTicket(ticket.Title, ticket.Status, ticket.Priority); err != nil {
		return nil, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Status:   ticket.Status,
			Priority: ticket.Priority,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket looks a ticket up by id. ok is false when it does not exist.
func (s *ServiceDesk) GetTicket(ctx context.Context, id int64) (*domain.Ticket, bool, error) {
	ticket, ok, err := s.tickets.GetByID(ctx, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ticket, true, nil
}

// UpdateTicket overwrites the fields set in patch and stamps updated_at.
// An empty patch still stamps updated_at; rejecting it is the caller's job.
func (s *ServiceDesk) UpdateTicket(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, bool, error) {
	if err := validatePatch(patch); err != nil {
		return nil, false, err
	}

	ticket, ok, err := s.tickets.Update(ctx, id, patch, s.now().UTC().Truncate(time.Microsecond))
	if err != nil || !ok {
		return nil, false, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Fields:   patch.Fields(),
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return &ticket, true, nil
}

// DeleteTicket removes a ticket and reports whether it existed.
func (s *ServiceDesk) DeleteTicket(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publishEvent(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	}
	return deleted, nil
}

// ListTickets returns every ticket, newest first.
func (s *ServiceDesk) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

func validateTicket(title string, status domain.TicketStatus, priority domain.TicketPriority) error {
	details := map[string]any{}
	checkTitle(details, title)
	checkStatus(details, status)
	checkPriority(details, priority)
	return validationResult(details)
}

func validatePatch(patch domain.TicketPatch) error {
	details := map[string]any{}
	if v, ok := patch.Title.Get(); ok {
		checkTitle(details, v)
	}
	if v, ok := patch.Status.Get(); ok {
		checkStatus(details, v)
	}
	if v, ok := patch.Priority.Get(); ok {
		checkPriority(details, v)
	}
	return validationResult(details)
}

func checkTitle(details map[string]any, title string) {
	if title == "" {
		details["title"] = "title is required"
	} else if utf8.RuneCountInString(title) > domain.TitleMaxLength {
		details["title"] = "title is too long"
	}
}

func checkStatus(details map[string]any, status domain.TicketStatus) {
	if !status.Valid() {
		details["status"] = "unknown status " + string(status)
	}
}

func checkPriority(details map[string]any, priority domain.TicketPriority) {
	if !priority.Valid() {
		details["priority"] = "unknown priority " + string(priority)
	}
}

func validationResult(details map[string]any) error {
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func (s *ServiceDesk) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
