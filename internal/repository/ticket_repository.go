package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/persistence"
)

// TicketRepository encapsulates ticket persistence. Absence is reported
// through the boolean result, never as an error.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (domain.Ticket, bool, error)
	Update(ctx context.Context, id int64, patch domain.TicketPatch, updatedAt time.Time) (domain.Ticket, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db *persistence.Postgres
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *persistence.Postgres) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, title, description, status::text, priority::text, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	pool, err := r.db.Acquire()
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO tickets (title, description, status, priority)
        VALUES ($1, $2, $3::text::ticket_status, $4::text::ticket_priority)
        RETURNING id, created_at, updated_at`
	if err := pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (domain.Ticket, bool, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return domain.Ticket{}, false, err
	}
	if !domain.TicketIDInRange(id) {
		return domain.Ticket{}, false, nil
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return fetchSingle(pool.QueryRow(ctx, query, id), "get ticket")
}

// Update writes only the supplied columns in one statement.
func (r *ticketRepository) Update(ctx context.Context, id int64, patch domain.TicketPatch, updatedAt time.Time) (domain.Ticket, bool, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return domain.Ticket{}, false, err
	}
	if !domain.TicketIDInRange(id) {
		return domain.Ticket{}, false, nil
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if v, ok := patch.Title.Get(); ok {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if v, ok := patch.Description.Get(); ok {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if v, ok := patch.Status.Get(); ok {
		args = append(args, string(v))
		sets = append(sets, fmt.Sprintf("status=$%d::text::ticket_status", len(args)))
	}
	if v, ok := patch.Priority.Get(); ok {
		args = append(args, string(v))
		sets = append(sets, fmt.Sprintf("priority=$%d::text::ticket_priority", len(args)))
	}
	// updated_at must move strictly forward even if the caller's clock lags.
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at=GREATEST($%d, updated_at + interval '1 microsecond')", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), ticketColumns)
	return fetchSingle(pool.QueryRow(ctx, query, args...), "update ticket")
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) (bool, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return false, err
	}
	if !domain.TicketIDInRange(id) {
		return false, nil
	}
	cmd, err := pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete ticket: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List returns every ticket, newest first.
func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC, id DESC`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func fetchSingle(row pgx.Row, op string) (domain.Ticket, bool, error) {
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ticket{}, false, nil
	}
	if err != nil {
		return domain.Ticket{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return ticket, true, nil
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	return ticket, err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return result, nil
}
