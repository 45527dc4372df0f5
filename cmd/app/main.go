package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"trybud/internal/api"
	"trybud/internal/repository"
	"trybud/internal/service"
	"trybud/internal/session"
	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:          "app",
	Short:        "TryBud quest progression and reward server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// setup loads config, starts the logger and opens the ledger. The caller owns
// the returned repository and must flush the logger.
func setup() (*Config, *repository.Repository, error) {
	cfg, err := LoadConfig(configDir)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return nil, nil, err
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return nil, nil, err
	}

	repo, err := repository.New(cfg.Database)
	if err != nil {
		logger.Logger().Error("Failed to initialize repository", zap.Error(err))
		return nil, nil, err
	}

	return cfg, repo, nil
}

func serve(ctx context.Context) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer repo.Close()
	zapLogger := logger.Logger()

	if err := repo.Migrate(ctx); err != nil {
		zapLogger.Error("Failed to migrate ledger", zap.Error(err))
		return err
	}

	sessions, err := session.NewStore(cfg.Session.Capacity)
	if err != nil {
		zapLogger.Error("Failed to initialize session store", zap.Error(err))
		return err
	}

	notifier := service.NewNotifier()
	questService := service.NewQuestService(repo)
	dashboardService := service.NewDashboardService(questService, sessions, notifier)
	svc := service.NewService(questService, dashboardService)

	if cfg.Auth.DebugMode {
		zapLogger.Warn("wallet address validation disabled")
	}
	walletAuth := auth.NewWalletAuth(cfg.Auth.DebugMode)

	router := api.NewRouter(svc, notifier, walletAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Error("Failed to start server", zap.Error(err))
		return err
	}
	return nil
}
