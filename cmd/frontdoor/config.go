package main

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/db"
)

const upsertConfig = `INSERT INTO config (cat, k, v) VALUES ($1, $2, $3)
ON CONFLICT (cat, k) DO UPDATE SET v = EXCLUDED.v`

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage site configuration stored in the database",
	}
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <cat> <key> <value>",
		Short:   "Set a configuration value",
		Example: "  frontdoor config set system maintenance 1",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := config.LoadBoot()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pool, err := db.Connect(ctx, boot.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
				_, err := tx.Exec(ctx, upsertConfig, args[0], args[1], args[2])
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %q\n", args[0], args[1], args[2])
			return nil
		},
	}
}
