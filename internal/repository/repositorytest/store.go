// Package repositorytest provides an in-memory TicketRepository for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
)

// Store mimics the Postgres repository: it assigns ids and timestamps on
// Create, lists newest first and treats ids outside the column range as absent.
type Store struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]domain.Ticket

	// Now stamps created rows. Defaults to time.Now.
	Now func() time.Time
	// Err, when set, is returned by every call.
	Err error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tickets: make(map[int64]domain.Ticket), Now: time.Now}
}

func (s *Store) Create(ctx context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	now := s.Now().UTC()
	ticket.ID = s.nextID
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (domain.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.Ticket{}, false, s.Err
	}
	ticket, ok := s.tickets[id]
	return ticket, ok, nil
}

func (s *Store) Update(ctx context.Context, id int64, patch domain.TicketPatch, updatedAt time.Time) (domain.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.Ticket{}, false, s.Err
	}
	ticket, ok := s.tickets[id]
	if !ok {
		return domain.Ticket{}, false, nil
	}
	patch.Apply(&ticket)
	if !updatedAt.After(ticket.UpdatedAt) {
		updatedAt = ticket.UpdatedAt.Add(time.Microsecond)
	}
	ticket.UpdatedAt = updatedAt
	s.tickets[id] = ticket
	return ticket, true, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.tickets[id]; !ok {
		return false, nil
	}
	delete(s.tickets, id)
	return true, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Len reports how many tickets are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}
