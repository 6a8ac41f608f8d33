package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/database"
)

// newMigrateCmd builds "cardscan migrate": apply, inspect or roll back the
// scan journal schema without starting the scanner.
func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending scan journal migrations",
		Long: `Apply every pending migration to the scan journal named by the database:
section of the config file, then print the migration status.

The scanner migrates on startup; this command is for preparing or repairing a
journal while the scanner is stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				if err := db.Migrate(ctx); err != nil {
					return fmt.Errorf("running migrations: %w", err)
				}
				return printMigrationStatus(ctx, cmd.OutOrStdout(), db)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				return printMigrationStatus(ctx, cmd.OutOrStdout(), db)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				applied, _, err := db.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
					return nil
				}

				if err := db.MigrateDown(ctx); err != nil {
					return fmt.Errorf("rolling back %s: %w", applied[len(applied)-1].Version, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", applied[len(applied)-1].Version)
				return nil
			})
		},
	})

	return cmd
}

// withJournal opens the configured journal database, runs fn and closes it.
func withJournal(ctx context.Context, opts *options, fn func(context.Context, *database.DB) error) error {
	cfg, err := config.Load(getConfigPath(opts.configPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-mostly CLI, nothing to flush

	return fn(ctx, db)
}

// printMigrationStatus writes one line per migration and a summary.
func printMigrationStatus(ctx context.Context, w io.Writer, db *database.DB) error {
	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		return err
	}

	for _, r := range applied {
		fmt.Fprintf(w, "%s  %s  %s\n", color.GreenString("applied"), r.Version, r.AppliedAt.UTC().Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(w, "%s  %s  %s\n", color.YellowString("pending"), m.Version, m.Name)
	}
	fmt.Fprintf(w, "%d applied, %d pending\n", len(applied), len(pending))
	return nil
}
