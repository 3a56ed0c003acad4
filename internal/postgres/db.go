package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool tunes the connection pool. A zero MaxConns or ConnectTimeout keeps
// the DSN's setting; health checks default to every 30s.
type Pool struct {
	MaxConns       int
	ConnectTimeout time.Duration
	HealthCheck    time.Duration
}

func (p Pool) poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if p.MaxConns > 0 {
		cfg.MaxConns = int32(p.MaxConns)
	}
	cfg.MinConns = 1
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	cfg.HealthCheckPeriod = 30 * time.Second
	if p.HealthCheck > 0 {
		cfg.HealthCheckPeriod = p.HealthCheck
	}
	if p.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = p.ConnectTimeout
	}
	return cfg, nil
}

// Connect opens the pool and pings it once.
func Connect(ctx context.Context, dsn string, p Pool) (*pgxpool.Pool, error) {
	cfg, err := p.poolConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
