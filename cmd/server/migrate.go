package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ayush/item-catalog/backend/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the development schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		pool, err := pgxpool.New(cmd.Context(), a.cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		defer pool.Close()

		if err := store.NewPostgresStore(pool).Migrate(cmd.Context()); err != nil {
			return err
		}
		a.log.Info("schema migrated")
		return nil
	},
}
