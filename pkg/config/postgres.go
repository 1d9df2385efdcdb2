package config

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool used by Postgres.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// Postgres reads values from the config table.
type Postgres struct {
	db Querier
}

// NewPostgres returns a store backed by the config table.
func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db}
}

const selectConfigValue = `SELECT v FROM config WHERE cat = $1 AND k = $2`

// Get implements Store.
func (p *Postgres) Get(ctx context.Context, cat, key string) (string, error) {
	if p == nil || p.db == nil {
		return "", ErrNotFound
	}

	var v string
	err := p.db.QueryRow(ctx, selectConfigValue, cat, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrQueryFailed, err)
	}
	return v, nil
}

// Available returns nil when the config table can be queried. It has the
// health check signature.
func (p *Postgres) Available(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrNotConfigured
	}
	var n int
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM config`).Scan(&n); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
