package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CustomersTable creates the customers table if it is absent. It never alters an existing table.
const CustomersTable = `CREATE TABLE IF NOT EXISTS customers (
	id             SERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	age            INTEGER,
	prefer_package INTEGER,
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureDatabase creates the configured database through the maintenance
// database. An existing database is not an error.
func (m *Manager) EnsureDatabase(ctx context.Context) error {
	if m.cfg.Name == m.cfg.MaintenanceDB {
		return nil
	}

	pool, err := m.open(ctx, m.cfg.MaintenanceDSN(), m.cfg)
	m.metrics.PoolOpened(err == nil && pool != nil)

	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database %q: %w", m.cfg.MaintenanceDB, err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{m.cfg.Name}.Sanitize())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.DuplicateDatabase {
		m.logger.Info("Database already exists", "database", m.cfg.Name)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to create database %q: %w", m.cfg.Name, err)
	}

	m.logger.Info("Database created", "database", m.cfg.Name)

	return nil
}

// EnsureSchema creates the tables the repository needs
func EnsureSchema(ctx context.Context, m *Manager) error {
	err := m.WithPool(ctx, func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, CustomersTable)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to initialize customers table: %w", err)
	}

	m.logger.Info("Database tables initialized", "database", m.cfg.Name)

	return nil
}
