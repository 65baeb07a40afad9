// Package store manages the short-lived PostgreSQL connection pools used by the
// customer repository. Every logical operation opens its own pool and closes it
// when the operation returns.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPoolUnavailable is returned by WithPool when no pool could be opened
var ErrPoolUnavailable = errors.New("connection pool unavailable")

// Querier is the subset of a pool the repository runs statements against
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a Querier that owns its connections and must be closed
type Pool interface {
	Querier
	Close()
}

// Error kinds reported in logs and metrics when a store error is collapsed.
const (
	KindUnavailable      = "unavailable"
	KindNotFound         = "not_found"
	KindUniqueViolation  = "unique_violation"
	KindNotNullViolation = "not_null_violation"
	KindCanceled         = "canceled"
	KindQuery            = "query"
)

// Classify maps err onto one of the Kind constants
func Classify(err error) string {
	var pgErr *pgconn.PgError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPoolUnavailable):
		return KindUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, pgx.ErrNoRows):
		return KindNotFound
	case errors.As(err, &pgErr):
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return KindUniqueViolation
		case pgErr.Code == pgerrcode.NotNullViolation:
			return KindNotNullViolation
		case pgerrcode.IsConnectionException(pgErr.Code):
			return KindUnavailable
		}
	}

	return KindQuery
}
