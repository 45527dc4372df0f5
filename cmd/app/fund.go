package main

import (
	"errors"

	"trybud/internal/catalog"
	"trybud/internal/model"
	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fundAddress   string
	fundAmount    int64
	fundYieldPool int64
)

// fundCmd credits stake balance on a local ledger so quests can be created
// without a real token transfer.
var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "credit a wallet's stake balance on the local ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, repo, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer repo.Close()

		if !cfg.Auth.DebugMode && !auth.ValidAddress(fundAddress) {
			return errors.New("invalid wallet address")
		}
		if fundAmount <= 0 {
			return errors.New("amount must be positive")
		}

		if err := repo.Migrate(cmd.Context()); err != nil {
			return err
		}
		owner := model.Address(fundAddress)
		if err := repo.Fund(cmd.Context(), owner, fundAmount); err != nil {
			logger.Logger().Error("Failed to fund wallet", zap.Error(err))
			return err
		}

		if fundYieldPool > 0 {
			if err := repo.FundYieldPool(cmd.Context(), fundYieldPool); err != nil {
				logger.Logger().Error("Failed to fund yield pool", zap.Error(err))
				return err
			}
			logger.Logger().Info("yield pool funded", zap.Int64("amount", fundYieldPool))
		}

		balance, err := repo.Balance(cmd.Context(), owner)
		if err != nil {
			return err
		}
		logger.Logger().Info("wallet funded",
			zap.String("address", fundAddress),
			zap.Int64("amount", fundAmount),
			zap.Int64("balance", balance),
			zap.Float64("balance_usdc", catalog.StakeToUSDC(balance)))
		return nil
	},
}

func init() {
	fundCmd.Flags().StringVar(&fundAddress, "address", "", "wallet address to credit")
	fundCmd.Flags().Int64Var(&fundAmount, "amount", 100_000_000, "amount in ledger units (6 decimals, default 100 USDC)")
	fundCmd.Flags().Int64Var(&fundYieldPool, "yield-pool", 0, "also add this amount to the yield pool")
	_ = fundCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(fundCmd)
}
