package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/callprep/internal/store"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the local SQLite snapshot schema (optionally with demo data)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != "sqlite" {
			return eris.Errorf("migrate: only the sqlite driver is migratable here, store.driver is %q", cfg.Store.Driver)
		}

		st, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("migrate: schema ready", zap.String("path", cfg.Store.SQLitePath))

		if migrateSeed {
			if err := st.Seed(ctx); err != nil {
				return err
			}
			zap.L().Info("migrate: demo data seeded")
		}

		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert demo leads, owners, and parcels")
	rootCmd.AddCommand(migrateCmd)
}
