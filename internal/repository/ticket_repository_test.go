package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/persistence"
)

// setupRepository connects to the database named by DATABASE_URL or the
// POSTGRES_* variables and skips the test when neither is set.
func setupRepository(t *testing.T) TicketRepository {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	if !cfg.Postgres.Configured() {
		t.Skip("database config not provided")
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	if err := pg.Ping(ctx); err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	require.NoError(t, persistence.RunMigrations(ctx, pg, zap.NewNop()))
	return NewTicketRepository(pg)
}

func createTicket(t *testing.T, repo TicketRepository, title string) domain.Ticket {
	t.Helper()
	ticket := domain.Ticket{
		Title:       title,
		Description: title + " desc",
		Status:      domain.TicketStatusNew,
		Priority:    domain.TicketPriorityMedium,
	}
	require.NoError(t, repo.Create(context.Background(), &ticket))
	t.Cleanup(func() {
		_, _ = repo.Delete(context.Background(), ticket.ID)
	})
	return ticket
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	created := createTicket(t, repo, "hello")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	fetched, ok, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Description, fetched.Description)
	assert.Equal(t, domain.TicketStatusNew, fetched.Status)
	assert.Equal(t, domain.TicketPriorityMedium, fetched.Priority)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
}

func TestTicketRepository_UpdateOnlySuppliedFields(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	created := createTicket(t, repo, "old")
	stamp := created.UpdatedAt.Add(time.Second)

	updated, ok, err := repo.Update(ctx, created.ID, domain.TicketPatch{
		Status:   domain.Some(domain.TicketStatusDone),
		Priority: domain.Some(domain.TicketPriorityHigh),
	}, stamp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "old", updated.Title)
	assert.Equal(t, "old desc", updated.Description)
	assert.Equal(t, domain.TicketStatusDone, updated.Status)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
	assert.True(t, stamp.Equal(updated.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestTicketRepository_Absent(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, ok, err := repo.GetByID(ctx, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.Update(ctx, -1, domain.TicketPatch{Title: domain.Some("x")}, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.Delete(ctx, -1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTicketRepository_IDBeyondColumnRange(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	const id = int64(9999999999)

	_, ok, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.Update(ctx, id, domain.TicketPatch{Title: domain.Some("x")}, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTicketRepository_DeleteTwice(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	created := createTicket(t, repo, "gone")

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, ok, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTicketRepository_ListNewestFirst(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	first := createTicket(t, repo, "one")
	second := createTicket(t, repo, "two")

	tickets, err := repo.List(ctx)
	require.NoError(t, err)

	positions := map[int64]int{}
	for i, ticket := range tickets {
		positions[ticket.ID] = i
	}
	require.Contains(t, positions, first.ID)
	require.Contains(t, positions, second.ID)
	assert.Less(t, positions[second.ID], positions[first.ID])
}

func TestTicketRepository_NotConfigured(t *testing.T) {
	repo := NewTicketRepository(&persistence.Postgres{})

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, persistence.ErrNotConfigured)

	err = repo.Create(context.Background(), &domain.Ticket{Title: "x"})
	assert.ErrorIs(t, err, persistence.ErrNotConfigured)
}
