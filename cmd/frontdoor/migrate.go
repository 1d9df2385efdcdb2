package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/db"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := config.LoadBoot()
			if err != nil {
				return err
			}
			log := logger.FromConfig(boot.Log)
			ctx := cmd.Context()

			pool, err := db.Connect(ctx, boot.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(ctx, pool, db.Schema(), boot.DB.MigrationsTable, log)
		},
	}
}
