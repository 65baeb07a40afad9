package store

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
	"github.com/theapemachine/mcp-server-customers/pkg/metrics"
)

// Manager opens a fresh pool per operation from static connection parameters.
// It holds no connections between calls.
type Manager struct {
	cfg     config.Database
	open    Opener
	logger  *log.Logger
	metrics *metrics.Recorder
}

// Option configures a Manager
type Option func(*Manager)

// WithOpener replaces the pool constructor
func WithOpener(open Opener) Option {
	return func(m *Manager) {
		m.open = open
	}
}

// WithLogger sets the logger used for connection diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the recorder for pool open outcomes
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(m *Manager) {
		m.metrics = recorder
	}
}

// NewManager creates a Manager for cfg
func NewManager(cfg config.Database, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		open:   Connect,
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Config returns the connection parameters the manager was built with
func (m *Manager) Config() config.Database {
	return m.cfg
}

// Acquire opens a new pool. On failure it logs the diagnostic and returns nil.
func (m *Manager) Acquire(ctx context.Context) Pool {
	pool, err := m.open(ctx, m.cfg.DSN(), m.cfg)
	m.metrics.PoolOpened(err == nil && pool != nil)

	if err != nil || pool == nil {
		m.logger.Error(
			"Failed to create database connection pool",
			"host", m.cfg.Host,
			"port", m.cfg.Port,
			"database", m.cfg.Name,
			"err", err,
		)
		return nil
	}

	return pool
}

// WithPool acquires a pool, runs fn against it and closes the pool on every
// exit path, including a panic inside fn or cancellation of ctx.
func (m *Manager) WithPool(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	pool := m.Acquire(ctx)
	if pool == nil {
		return ErrPoolUnavailable
	}
	defer pool.Close()

	return fn(ctx, pool)
}
