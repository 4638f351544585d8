// Package pgx implements the marquee storage ports on PostgreSQL via
// pgxpool. The schema (migrations/) carries the uniqueness constraints
// the ledgers rely on; every check-then-write here is a single
// statement so racing requests collapse into one row instead of two.
package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/marquee/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

// Ping reports DB reachability; used by the health endpoint.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.pool.Ping(ctx); err != nil {
		return &core.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

// duplicateFields maps unique constraint names to the user-facing
// field reported in the conflict.
var duplicateFields = map[string]string{
	"accounts_identity_key":        "identity",
	"accounts_email_key":           "email",
	"watchlist_entries_pkey":       "watchlist entry",
	"comment_threads_movie_id_key": "comment thread",
}

// mapError translates driver errors into core error kinds. Anything
// that is not a recognized constraint violation is a store failure.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, ok := duplicateFields[pgErr.ConstraintName]
		if !ok {
			field = "record"
		}
		return &core.DuplicateError{Field: field}
	}
	return &core.StoreError{Op: op, Err: err}
}
