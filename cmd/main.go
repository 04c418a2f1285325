package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	authservice "github.com/goserg/clubshub/auth/service"
	"github.com/goserg/clubshub/auth/storage/mem"
	"github.com/goserg/clubshub/bot/tgbot"
	"github.com/goserg/clubshub/internal/catalog"
	"github.com/goserg/clubshub/internal/config"
	"github.com/goserg/clubshub/internal/logger"
	"github.com/goserg/clubshub/internal/service"
	"github.com/goserg/clubshub/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clubsCatalog, err := catalog.Default()
	if err != nil {
		return err
	}
	clubService := service.New(clubsCatalog, log)

	authService, err := authservice.New(cfg.Auth, mem.New(), log)
	if err != nil {
		return err
	}
	go func() {
		if err := authService.RunJanitor(ctx); err != nil {
			log.WithError(err).Error("session janitor stopped")
		}
	}()

	if cfg.TgBot.Enabled {
		bot, err := tgbot.New(clubService, cfg, log)
		if err != nil {
			return err
		}
		clubService.SetNotifier(bot)
		go bot.Run(ctx)
	}

	server, err := web.New(clubService, cfg.Server, authService, log)
	if err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return server.Shutdown()
	}
}
