package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/config"
)

func TestNewPostgres_NotConfigured(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	defer pg.Close()

	_, err = pg.Acquire()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrNotConfigured)
}

func TestNewPostgres_InvalidDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	require.Error(t, err)
}

func TestRunMigrations_SkipsWithoutPool(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), &Postgres{}, zap.NewNop()))
}

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_tickets.sql", names[0])
	assert.IsIncreasing(t, names)
}
