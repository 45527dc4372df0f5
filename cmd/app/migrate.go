package main

import (
	"trybud/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create the ledger schema and seed the stake pools",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer repo.Close()

		if err := repo.Migrate(cmd.Context()); err != nil {
			logger.Logger().Error("Migration failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
