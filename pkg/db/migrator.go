package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var schema embed.FS

// Schema returns the embedded migrations for the config and user tables.
func Schema() fs.FS {
	sub, err := fs.Sub(schema, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies every pending migration in the root of migrations and
// records versions in table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	store, err := database.NewStore(database.DialectPostgres, table)
	if err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	// Shares the pool's connections; closing it would not release them.
	sqlDB := stdlib.OpenDBFromPool(pool)
	p, err := goose.NewProvider("", sqlDB, migrations,
		goose.WithStore(store),
		goose.WithLogger(gooseLog{log}),
	)
	if err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("took", r.Duration),
		)
	}
	return nil
}

type gooseLog struct{ log *slog.Logger }

func (g gooseLog) Printf(format string, args ...any) { g.log.Debug(fmt.Sprintf(format, args...)) }

// Fatalf only logs; goose also returns the error to the caller.
func (g gooseLog) Fatalf(format string, args ...any) { g.log.Error(fmt.Sprintf(format, args...)) }
