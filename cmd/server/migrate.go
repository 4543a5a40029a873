package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/iliyamo/fyyur/internal/database"
)

// sqlDB pairs the pool with the dialect that selects its migrations.
type sqlDB struct {
	*sql.DB
	dialect database.Dialect
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := database.Migrate(cmd.Context(), store.DB, store.dialect); err != nil {
			return err
		}
		logger.Info("migrations applied", "dialect", string(store.dialect))
		return nil
	},
}
