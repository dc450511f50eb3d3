package main

import (
	"fmt"

	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		Long:  "Applies the goose migrations to DB_DSN. The sqlite store migrates itself on open; the JSON store has no schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			out := cmd.OutOrStdout()
			if cfg.StoreDriver != config.StorePostgres {
				fmt.Fprintf(out, "Store %q needs no migrations\n", cfg.StoreDriver)
				return nil
			}

			pool, err := pgxpool.New(cmd.Context(), cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Run(cmd.Context()); err != nil {
				return err
			}

			version, err := migrator.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Schema at version %d\n", version)
			return nil
		},
	}
}
