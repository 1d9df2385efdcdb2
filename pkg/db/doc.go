// Package db provides PostgreSQL connectivity for the front controller.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a health
// check used by the mode probe and readiness endpoint, the embedded schema
// applied with [github.com/pressly/goose/v3], and the few lookups the
// request pipeline needs.
//
// # Configuration
//
// All settings are loaded from environment variables:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (empty: no database)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 2s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg.DB)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, db.Schema(), cfg.DB.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	lang, err := db.NewUsers(pool).Language(ctx, uid)
//
// # Transactions
//
// [WithTx] rolls back on error or panic and commits otherwise:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "UPDATE config SET v = $1 WHERE cat = $2 AND k = $3", v, cat, k)
//		return err
//	})
//
// # Errors
//
//   - [ErrFailedToParseDBConfig] - Invalid connection string format
//   - [ErrFailedToOpenDBConnection] - Connection failed after all retries
//   - [ErrHealthcheckFailed] - Database ping failed
//   - [ErrSetDialect] - Migration dialect configuration error
//   - [ErrApplyMigrations] - Migration execution failed
//   - [ErrUserNotFound] - No such local user
//   - [ErrQueryFailed] - A lookup failed for another reason
package db
