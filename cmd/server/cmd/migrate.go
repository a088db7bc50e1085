package cmd

import (
	"fmt"

	"github.com/oornnery/site/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateUp(cfg.Database.URL, postgres.DefaultMigrationsPath); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateDown(cfg.Database.URL, postgres.DefaultMigrationsPath, migrateDownSteps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "rolled back")
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateDownCmd)
}
