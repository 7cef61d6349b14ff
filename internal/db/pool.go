package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chabro2633/diary-korean/internal/logging"
)

const (
	maxRetries    = 5
	retryInterval = 2 * time.Second
)

// NewPool connects to Postgres, retrying while the database comes up.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	log := logging.Component("db")

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Info().Str("host", config.ConnConfig.Host).Msg("database connected")
				return pool, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}

		log.Warn().Err(err).Int("attempt", attempt).Int("max", maxRetries).Msg("database connection attempt failed")
		if attempt < maxRetries {
			select {
			case <-time.After(retryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("database connection failed after %d attempts: %w", maxRetries, err)
}

// PgxDB adapts a pgx pool to DB.
type PgxDB struct {
	pool *pgxpool.Pool
}

// FromPool wraps an existing pool.
func FromPool(pool *pgxpool.Pool) *PgxDB {
	return &PgxDB{pool: pool}
}

// Pool exposes the underlying pool for health checks and metrics.
func (p *PgxDB) Pool() *pgxpool.Pool { return p.pool }

func (p *PgxDB) Dialect() Dialect { return Postgres }

func (p *PgxDB) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *PgxDB) Close() { p.pool.Close() }

func (p *PgxDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return pgxExec(ctx, p.pool, query, args)
}

func (p *PgxDB) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, Postgres.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows}, nil
}

func (p *PgxDB) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgxRow{p.pool.QueryRow(ctx, Postgres.Rebind(query), args...)}
}

func (p *PgxDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

type pgxExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func pgxExec(ctx context.Context, e pgxExecer, query string, args []any) (int64, error) {
	tag, err := e.Exec(ctx, Postgres.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return pgxExec(ctx, t.tx, query, args)
}

func (t *pgxTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, Postgres.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows}, nil
}

func (t *pgxTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgxRow{t.tx.QueryRow(ctx, Postgres.Rebind(query), args...)}
}

func (t *pgxTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

type pgxRows struct {
	pgx.Rows
}

func (r pgxRows) Close() { r.Rows.Close() }
