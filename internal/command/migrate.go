package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	"github.com/todoapp/todo-api/pkg/logger"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema commands",
	}
	cmd.AddCommand(
		migrateUpCommand(),
		migrateDownCommand(),
		migrateVersionCommand(),
	)
	return cmd
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(cfg.Postgres.URL); err != nil {
				return err
			}
			log := logger.Get()
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func migrateDownCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  "Rolls back the given number of migrations, or all of them when --steps is 0.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigrations(cfg.Postgres.URL, steps); err != nil {
				return err
			}
			log := logger.Get()
			log.Info().Int("steps", steps).Msg("migrations rolled back")
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back (0 = all)")
	return cmd
}

func migrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(cfg.Postgres.URL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return err
		},
	}
}
