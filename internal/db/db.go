package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrNoRows is returned by Row.Scan when the query matched nothing, regardless
// of the driver behind the handle.
var ErrNoRows = errors.New("db: no rows in result set")

// Dialect identifies the SQL flavour of a handle.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// ILike returns the case-insensitive pattern operator for the dialect.
// SQLite's LIKE is already case-insensitive for ASCII.
func (d Dialect) ILike() string {
	if d == SQLite {
		return "LIKE"
	}
	return "ILIKE"
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
// Queries in this module never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Row is a single-row result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row result. Close is safe to call more than once.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is the query surface shared by handles and transactions.
// Queries are written with ? placeholders.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Tx is an open transaction.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB is the store handle injected into every repository.
type DB interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	Dialect() Dialect
	Ping(ctx context.Context) error
	Close()
}

// WithTx runs fn inside a transaction, committing on success.
func WithTx(ctx context.Context, d DB, fn func(tx Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
