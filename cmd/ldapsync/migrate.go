package main

import (
	"github.com/spf13/cobra"

	"ldapsync/internal/database"
	"ldapsync/internal/database/migration"
	"ldapsync/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the record-store schema if it is missing",
	Long: `Apply the schema to the configured PostgreSQL database. The command is
idempotent; the server and sync commands run it on startup as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewPostgres(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migration.EnsureMigrated(cmd.Context(), db, cfg.Database.Host); err != nil {
			return err
		}
		logger.Info().Msg("schema is up to date")
		return nil
	},
}
