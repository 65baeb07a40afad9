package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
	"github.com/theapemachine/mcp-server-customers/pkg/store"
)

const table = "customers"

var columns = []string{"id", "name", "email", "age", "prefer_package", "created_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// errNotFound marks a lookup that matched no row, as opposed to a store failure
var errNotFound = errors.New("customer not found")

// PoolScope runs fn against a pool that is released when fn returns
type PoolScope interface {
	WithPool(ctx context.Context, fn func(ctx context.Context, q store.Querier) error) error
}

// Repository implements Store on PostgreSQL. Each method opens and closes its own pool.
type Repository struct {
	scope   PoolScope
	logger  *log.Logger
	metrics *metrics.Recorder
}

// NewRepository creates a repository backed by scope
func NewRepository(scope PoolScope, logger *log.Logger, recorder *metrics.Recorder) *Repository {
	if logger == nil {
		logger = log.Default()
	}

	return &Repository{
		scope:   scope,
		logger:  logger.With("component", "customer_repository"),
		metrics: recorder,
	}
}

func selectCustomers() squirrel.SelectBuilder {
	return squirrel.Select(columns...).
		From(table).
		PlaceholderFormat(squirrel.Dollar)
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// ListAll retrieves all customers from the customers table
func (r *Repository) ListAll(ctx context.Context) []Customer {
	var customers []Customer

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		query, args, err := selectCustomers().ToSql()
		if err != nil {
			return fmt.Errorf("building select query: %w", err)
		}

		return pgxscan.Select(ctx, q, &customers, query, args...)
	})

	if err != nil {
		r.fail("list_all", err)
		return []Customer{}
	}

	if customers == nil {
		return []Customer{}
	}

	return customers
}

// GetByID retrieves a customer by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) *Customer {
	var found *Customer

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		var err error
		found, err = getByID(ctx, q, id)
		return err
	})

	if err != nil {
		r.fail("get_by_id", err, "id", id)
		return nil
	}

	return found
}

// SearchByName retrieves customers whose name contains fragment, ignoring case
func (r *Repository) SearchByName(ctx context.Context, fragment string) []Customer {
	var customers []Customer

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		query, args, err := selectCustomers().
			Where(squirrel.ILike{"name": "%" + likeEscaper.Replace(fragment) + "%"}).
			ToSql()
		if err != nil {
			return fmt.Errorf("building search query: %w", err)
		}

		return pgxscan.Select(ctx, q, &customers, query, args...)
	})

	if err != nil {
		r.fail("search_by_name", err, "name", fragment)
		return []Customer{}
	}

	if customers == nil {
		return []Customer{}
	}

	return customers
}

// Create adds a new customer to the database
func (r *Repository) Create(ctx context.Context, params CreateParams) *Customer {
	var created Customer

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		query, args, err := squirrel.Insert(table).
			Columns("name", "email", "age", "prefer_package").
			Values(params.Name, params.Email, params.Age, params.PreferPackage).
			Suffix(returning()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building insert query: %w", err)
		}

		return pgxscan.Get(ctx, q, &created, query, args...)
	})

	if err != nil {
		r.fail("create", err, "email", params.Email)
		return nil
	}

	return &created
}

// Update reads the current row, merges params over it and rewrites the full
// row. Both statements run against the same pool.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) *Customer {
	var updated Customer

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		current, err := getByID(ctx, q, id)
		if err != nil {
			return err
		}

		merged := params.Apply(*current)

		query, args, err := squirrel.Update(table).
			Set("name", merged.Name).
			Set("email", merged.Email).
			Set("age", merged.Age).
			Set("prefer_package", merged.PreferPackage).
			Where(squirrel.Eq{"id": id}).
			Suffix(returning()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building update query: %w", err)
		}

		return pgxscan.Get(ctx, q, &updated, query, args...)
	})

	if err != nil {
		r.fail("update", err, "id", id)
		return nil
	}

	return &updated
}

// Delete removes a customer by their ID
func (r *Repository) Delete(ctx context.Context, id int64) bool {
	var affected int64

	err := r.scope.WithPool(ctx, func(ctx context.Context, q store.Querier) error {
		query, args, err := squirrel.Delete(table).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building delete query: %w", err)
		}

		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return err
		}

		affected = tag.RowsAffected()

		return nil
	})

	if err != nil {
		r.fail("delete", err, "id", id)
		return false
	}

	if affected == 0 {
		r.logger.Debug("Delete matched no customer", "id", id)
	}

	return affected > 0
}

func getByID(ctx context.Context, q store.Querier, id int64) (*Customer, error) {
	query, args, err := selectCustomers().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var c Customer
	if err := pgxscan.Get(ctx, q, &c, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, errNotFound
		}

		return nil, err
	}

	return &c, nil
}

// fail logs the original diagnostic before the caller collapses it to an empty result
func (r *Repository) fail(op string, err error, keyvals ...any) {
	if errors.Is(err, errNotFound) {
		r.logger.Debug("No customer matched", append([]any{"op", op}, keyvals...)...)
		return
	}

	kind := store.Classify(err)
	r.metrics.StoreError(op, kind)

	r.logger.Error(
		"Database operation failed",
		append([]any{"op", op, "kind", kind, "err", err}, keyvals...)...,
	)
}
