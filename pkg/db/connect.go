package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open builds a pool without waiting for the database. Connections are
// made on first use, so a server started while Postgres is down recovers
// as soon as it comes back. It returns ErrNotConfigured when no connection
// string is set.
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	return pool, nil
}

// Connect opens a pool and pings it, retrying up to cfg.RetryAttempts times.
// Use it where the database is required up front, such as migrations.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	var last error
	for attempt := 1; attempt <= max(cfg.RetryAttempts, 1); attempt++ {
		pool, err := dial(ctx, pc)
		if err == nil {
			return pool, nil
		}
		last = err

		wait := time.NewTimer(time.Duration(attempt) * cfg.RetryInterval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-wait.C:
		}
	}
	return nil, errors.Join(ErrFailedToOpenDBConnection, last)
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrNotConfigured
	}
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = cfg.MaxOpenConns
	}
	pc.MinConns = min(cfg.MinConns, pc.MaxConns)
	pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	return pc, nil
}

func dial(ctx context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
