package cmd

import (
	"fulfillment/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err = postgres.Migrate(db.WithContext(cmd.Context())); err != nil {
			return err
		}
		logger.Info("Schema migrated", "tables", postgres.Tables())
		return nil
	},
}
