package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/controller"
	"github.com/Freeeeeet/testdrive_bot/internal/controller/handlers"
	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var sweepInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, sweepInterval)
		},
	}

	cmd.Flags().DurationVar(&sweepInterval, "sweep-interval", time.Minute, "how often idle sessions are expired")
	return cmd
}

func runServe(cmd *cobra.Command, sweepInterval time.Duration) error {
	cfg, logger, err := loadRuntime(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	logger.Info("Starting test-drive bot",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreDriver),
		zap.Duration("session_ttl", cfg.SessionTTL),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	sessions := state.NewManager(cfg.SessionTTL)
	sweeper := app.NewSweeper(sessions, sweepInterval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	cmdHandlers := handlers.NewHandlers(svc.Engine, svc.Bookings, svc.Catalog, sessions, cfg.BusinessName, logger)
	botController := controller.NewBotController(b, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	err = botController.Start(ctx)
	logger.Info("Bot stopped")
	return err
}
