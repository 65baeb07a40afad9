package customer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
	"github.com/theapemachine/mcp-server-customers/pkg/store"
)

type trackedPool struct {
	pgxmock.PgxPoolIface
	opened int
	closed int
}

func (p *trackedPool) Close() {
	p.closed++
}

type fixture struct {
	repo *Repository
	pool *trackedPool
	logs *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	pool := &trackedPool{PgxPoolIface: mock}
	logs := &bytes.Buffer{}
	logger := log.New(logs)
	logger.SetLevel(log.DebugLevel)

	manager := store.NewManager(
		config.Database{Host: "localhost", Port: 5432, User: "postgres", Name: "customers"},
		store.WithLogger(logger),
		store.WithOpener(func(context.Context, string, config.Database) (store.Pool, error) {
			pool.opened++
			return pool, nil
		}),
	)

	return &fixture{
		repo: NewRepository(manager, logger, metrics.New()),
		pool: pool,
		logs: logs,
	}
}

// assertReleased checks that every pool the repository opened was also closed
func (f *fixture) assertReleased(t *testing.T) {
	t.Helper()
	assert.Equal(t, f.pool.opened, f.pool.closed, "every opened pool must be closed")
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

var createdAt = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func rowsOf(f *fixture, customers ...Customer) *pgxmock.Rows {
	rows := f.pool.NewRows(columns)
	for _, c := range customers {
		rows.AddRow(c.ID, c.Name, c.Email, c.Age, c.PreferPackage, c.CreatedAt)
	}
	return rows
}

func ann() Customer {
	return Customer{ID: 1, Name: "Ann Smith", Email: "ann@example.com", Age: intPtr(34), PreferPackage: (*int)(nil), CreatedAt: createdAt}
}

func hannah() Customer {
	return Customer{ID: 2, Name: "Hannah", Email: "hannah@example.com", Age: (*int)(nil), PreferPackage: intPtr(3), CreatedAt: createdAt}
}

func TestRepository_ListAll(t *testing.T) {
	t.Run("Should return every customer", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT id, name, email, age, prefer_package, created_at FROM customers").
			WillReturnRows(rowsOf(f, ann(), hannah()))

		got := f.repo.ListAll(context.Background())

		require.Len(t, got, 2)
		assert.Equal(t, ann(), got[0])
		assert.Equal(t, hannah(), got[1])
		f.assertReleased(t)
	})

	t.Run("Should return an empty slice for an empty table", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers").WillReturnRows(rowsOf(f))

		got := f.repo.ListAll(context.Background())

		assert.NotNil(t, got)
		assert.Empty(t, got)
		f.assertReleased(t)
	})

	t.Run("Should collapse query errors to an empty slice", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "customers" does not exist`})

		got := f.repo.ListAll(context.Background())

		assert.Empty(t, got)
		assert.Contains(t, f.logs.String(), "Database operation failed")
		assert.Contains(t, f.logs.String(), "kind=query")
		f.assertReleased(t)
	})
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("Should return the matching customer", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(rowsOf(f, ann()))

		got := f.repo.GetByID(context.Background(), 1)

		require.NotNil(t, got)
		assert.Equal(t, ann(), *got)
		f.assertReleased(t)
	})

	t.Run("Should return nil when no row matches", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(rowsOf(f))

		assert.Nil(t, f.repo.GetByID(context.Background(), 404))
		assert.NotContains(t, f.logs.String(), "Database operation failed")
		f.assertReleased(t)
	})

	t.Run("Should return nil when the pool is unavailable", func(t *testing.T) {
		logs := &bytes.Buffer{}
		manager := store.NewManager(
			config.Database{Host: "localhost", Port: 5432, Name: "customers"},
			store.WithLogger(log.New(logs)),
			store.WithOpener(func(context.Context, string, config.Database) (store.Pool, error) {
				return nil, assert.AnError
			}),
		)
		repo := NewRepository(manager, log.New(logs), nil)

		assert.Nil(t, repo.GetByID(context.Background(), 1))
		assert.Contains(t, logs.String(), "kind=unavailable")
	})
}

func TestRepository_SearchByName(t *testing.T) {
	t.Run("Should wrap the fragment for a case-insensitive substring match", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE name ILIKE \\$1").
			WithArgs("%ann%").
			WillReturnRows(rowsOf(f, ann(), hannah()))

		got := f.repo.SearchByName(context.Background(), "ann")

		assert.Len(t, got, 2)
		f.assertReleased(t)
	})

	t.Run("Should escape LIKE wildcards in the fragment", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE name ILIKE \\$1").
			WithArgs(`%50\%\_off%`).
			WillReturnRows(rowsOf(f))

		assert.Empty(t, f.repo.SearchByName(context.Background(), "50%_off"))
		f.assertReleased(t)
	})

	t.Run("Should collapse errors to an empty slice", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE name ILIKE \\$1").
			WithArgs("%ann%").
			WillReturnError(context.DeadlineExceeded)

		assert.Empty(t, f.repo.SearchByName(context.Background(), "ann"))
		assert.Contains(t, f.logs.String(), "kind=canceled")
		f.assertReleased(t)
	})
}

func TestRepository_Create(t *testing.T) {
	t.Run("Should insert and return the stored row", func(t *testing.T) {
		f := newFixture(t)
		params := CreateParams{Name: "Ann Smith", Email: "ann@example.com", Age: intPtr(34)}
		f.pool.ExpectQuery("INSERT INTO customers \\(name,email,age,prefer_package\\) VALUES \\(\\$1,\\$2,\\$3,\\$4\\) RETURNING (.+)").
			WithArgs("Ann Smith", "ann@example.com", intPtr(34), (*int)(nil)).
			WillReturnRows(rowsOf(f, ann()))

		got := f.repo.Create(context.Background(), params)

		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, createdAt, got.CreatedAt)
		f.assertReleased(t)
	})

	t.Run("Should return nil on a duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("INSERT INTO customers").
			WithArgs("Ann Again", "ann@example.com", (*int)(nil), (*int)(nil)).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				Message:        "duplicate key value violates unique constraint",
				ConstraintName: "customers_email_key",
			})

		got := f.repo.Create(context.Background(), CreateParams{Name: "Ann Again", Email: "ann@example.com"})

		assert.Nil(t, got)
		assert.Contains(t, f.logs.String(), "kind=unique_violation")
		f.assertReleased(t)
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("Should merge supplied fields over the current row", func(t *testing.T) {
		f := newFixture(t)
		current := ann()
		want := current
		want.Email = "ann.smith@example.com"

		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(rowsOf(f, current))
		f.pool.ExpectQuery("UPDATE customers SET name = \\$1, email = \\$2, age = \\$3, prefer_package = \\$4 WHERE id = \\$5 RETURNING (.+)").
			WithArgs("Ann Smith", "ann.smith@example.com", intPtr(34), (*int)(nil), int64(1)).
			WillReturnRows(rowsOf(f, want))

		got := f.repo.Update(context.Background(), 1, UpdateParams{Email: strPtr("ann.smith@example.com")})

		require.NotNil(t, got)
		assert.Equal(t, want, *got)
		assert.Equal(t, 1, f.pool.opened, "both phases share one pool")
		f.assertReleased(t)
	})

	t.Run("Should fail fast when the customer does not exist", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int64(9)).
			WillReturnRows(rowsOf(f))

		got := f.repo.Update(context.Background(), 9, UpdateParams{Name: strPtr("Nobody")})

		assert.Nil(t, got)
		f.assertReleased(t)
	})

	t.Run("Should return nil when the rewrite violates a constraint", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1").
			WithArgs(int64(2)).
			WillReturnRows(rowsOf(f, hannah()))
		f.pool.ExpectQuery("UPDATE customers").
			WithArgs("Hannah", "ann@example.com", (*int)(nil), intPtr(3), int64(2)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		got := f.repo.Update(context.Background(), 2, UpdateParams{Email: strPtr("ann@example.com")})

		assert.Nil(t, got)
		assert.Contains(t, f.logs.String(), "kind=unique_violation")
		f.assertReleased(t)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("Should report true when a row was deleted", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectExec("DELETE FROM customers WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.True(t, f.repo.Delete(context.Background(), 1))
		f.assertReleased(t)
	})

	t.Run("Should report false when no row matched", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectExec("DELETE FROM customers WHERE id = \\$1").
			WithArgs(int64(77)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.False(t, f.repo.Delete(context.Background(), 77))
		f.assertReleased(t)
	})

	t.Run("Should report false on a store error", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectExec("DELETE FROM customers WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.AdminShutdown})

		assert.False(t, f.repo.Delete(context.Background(), 1))
		f.assertReleased(t)
	})
}

func TestUpdateParams(t *testing.T) {
	t.Run("Should report emptiness", func(t *testing.T) {
		assert.True(t, UpdateParams{}.IsEmpty())
		assert.False(t, UpdateParams{Age: intPtr(0)}.IsEmpty())
	})

	t.Run("Should keep unspecified fields", func(t *testing.T) {
		merged := UpdateParams{Name: strPtr("Ann S.")}.Apply(ann())

		assert.Equal(t, "Ann S.", merged.Name)
		assert.Equal(t, "ann@example.com", merged.Email)
		assert.Equal(t, intPtr(34), merged.Age)
		assert.Nil(t, merged.PreferPackage)
		assert.Equal(t, int64(1), merged.ID)
	})
}
