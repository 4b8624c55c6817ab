package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/signpath/signpath-server/database"
)

var _ DB = (*Connection)(nil)

// Connection is the pool behind the record repository. One process owns one
// session, so the pool stays small.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection migrates the schema, opens a pool of at most maxConns
// connections and checks that it can reach the server.
func NewConnection(ctx context.Context, dsn string, maxConns int32) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		conf.MaxConns = maxConns
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to migrate session records schema: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

// Close releases every pooled connection.
func (c *Connection) Close() error {
	c.Pool.Close()
	return nil
}
