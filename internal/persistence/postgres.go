package persistence

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/config"
	apperrors "github.com/spec-kit/service-desk/pkg/errorutil"
)

// ErrNotConfigured is returned by every database call when neither
// DATABASE_URL nor the POSTGRES_* variables were provided.
var ErrNotConfigured = apperrors.NewServiceUnavailable(
	"DATABASE_NOT_CONFIGURED",
	"DATABASE_URL (or POSTGRES_* vars) is not set",
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres builds the connection pool. A missing DSN yields a handle
// without a pool whose calls fail with ErrNotConfigured. An unreachable
// server is logged but not fatal; the pool dials lazily.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if !cfg.Configured() {
		logger.Error("database configuration missing; ticket endpoints will be unavailable",
			zap.Error(ErrNotConfigured))
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres unreachable at startup", zap.Error(err))
	} else {
		logger.Info("connected to postgres",
			zap.String("host", poolCfg.ConnConfig.Host),
			zap.String("database", poolCfg.ConnConfig.Database))
	}
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Acquire returns the pool, or ErrNotConfigured when there is none.
func (p *Postgres) Acquire() (*pgxpool.Pool, error) {
	if p == nil || p.Pool == nil {
		return nil, ErrNotConfigured
	}
	return p.Pool, nil
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	pool, err := p.Acquire()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}
