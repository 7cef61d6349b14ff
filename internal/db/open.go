package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open returns the SQLite store when sqlitePath is set, otherwise a Postgres
// pool for databaseURL. The pool is returned too (nil for SQLite) so callers
// can export its stats.
func Open(ctx context.Context, databaseURL, sqlitePath string) (DB, *pgxpool.Pool, error) {
	if sqlitePath != "" {
		d, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return d, nil, nil
	}
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	return FromPool(pool), pool, nil
}
