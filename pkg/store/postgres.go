package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
)

const defaultRetryBackoff = 200 * time.Millisecond

// Opener establishes a pool against dsn. Connect is the production Opener;
// tests substitute one returning a mock pool.
type Opener func(ctx context.Context, dsn string, cfg config.Database) (Pool, error)

// Connect creates a pgx pool for dsn and verifies it with a ping, retrying the
// ping up to cfg.ConnectRetries times with exponential backoff.
func Connect(ctx context.Context, dsn string, cfg config.Database) (Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	poolCfg.MinConns = 0

	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	base := cfg.RetryBackoff
	if base <= 0 {
		base = defaultRetryBackoff
	}

	retries := cfg.ConnectRetries
	if retries < 0 {
		retries = 0
	}

	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(base))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})

	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return pool, nil
}
