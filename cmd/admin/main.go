// Command admin is the operator CLI: it creates administrator accounts and
// triages grievances without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/grievance"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/logging"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/telegram"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the services shared by every subcommand.
type app struct {
	users      *auth.Service
	grievances *grievance.Service
	store      storage.Storage
	rdb        *redis.Client
	logger     *zap.Logger
}

var a app

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Grievance portal operator CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return a.open(cmd.Context())
	},
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	db, rdb, err := storage.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	if err := storage.Migrate(db); err != nil {
		return err
	}
	store := storage.NewStorageService(db, rdb)

	var notifier grievance.Notifier
	if cfg.TelegramBotToken != "" {
		localizer, err := localization.NewLocalizer(cfg.LocalesDir)
		if err != nil {
			return err
		}
		api, err := telegram.NewBotAPI(cfg.TelegramBotToken, logger)
		if err != nil {
			logger.Warn("telegram unavailable, notifications disabled", zap.Error(err))
		} else {
			notifier = telegram.NewNotifier(api, localizer)
		}
	}

	a.store = store
	a.rdb = rdb
	a.logger = logger
	// Tokens are never issued from the CLI.
	a.users = auth.NewService(store, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), logger)
	a.grievances = grievance.NewService(store, notifier, logger)
	return nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func main() {
	rootCmd.AddCommand(createAdminCmd(), listCmd(), updateStatusCmd(), statsCmd())
	err := rootCmd.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
