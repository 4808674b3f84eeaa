package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grievanceportal/backend/internal/api/handler"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/grievance"
	"grievanceportal/backend/internal/hub"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/logging"
	"grievanceportal/backend/internal/schema"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/telegram"
	"grievanceportal/backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Dependencies
	db, rdb, err := storage.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect storage", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()
	if err := storage.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database and redis connections established, migrations complete")

	store := storage.NewStorageService(db, rdb)
	registry := schema.Default()

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	// 2. Dashboard hub fed from Redis so every instance sees every event
	manager := hub.NewManager(logger)
	go manager.Run(ctx)
	go manager.ListenEvents(ctx, store.SubscribeEvents(ctx))

	// 3. Optional Telegram bot
	var notifier grievance.Notifier
	var botUsername string
	if cfg.TelegramBotToken != "" {
		api, err := telegram.NewBotAPI(cfg.TelegramBotToken, logger)
		if err != nil {
			logger.Fatal("failed to start telegram bot", zap.Error(err))
		}
		botUsername = api.Self.UserName
		bot := telegram.NewBotService(api, botUsername, telegram.NewCommands(store, localizer, logger), logger)
		go bot.Run(ctx)
		notifier = telegram.NewNotifier(api, localizer)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, status notifications are disabled")
	}

	// 4. Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := auth.NewService(store, tokens, logger)
	grievances := grievance.NewService(store, notifier, logger)
	drafts := wizard.NewSessions(store, registry, grievances,
		wizard.IdentityFunc(auth.UserIDFromContext), cfg.DraftTTL, config.DraftLockTTL, logger)

	// 5. HTTP
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(logger))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	h := handler.NewHandler(authSvc, grievances, registry, drafts, manager, logger)
	h.BotUsername = botUsername
	h.Routes(r, tokens)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	<-manager.Done()
}
