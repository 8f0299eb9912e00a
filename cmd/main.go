package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"foodlens-bot/config"
	telegram "foodlens-bot/internal/api"
	"foodlens-bot/internal/container"
)

const shutdownTimeout = 10 * time.Second

type webhookRegistrar interface {
	SetWebhook(url, secret string) error
}

// registerWebhook регистрирует вебхук, если бот работает в режиме webhook и адрес задан.
func registerWebhook(cfg *config.Config, registrar webhookRegistrar) error {
	if cfg.BotMode != config.ModeWebhook || cfg.WebhookURL == "" {
		return nil
	}
	if err := registrar.SetWebhook(cfg.WebhookURL, cfg.WebhookSecret); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	return nil
}

func main() {
	envFile := flag.String("env-file", ".env", "path to env file")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("could not parse log level")
	}
	zerolog.SetGlobalLevel(level)
	logger = logger.With().Str("app", cfg.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := telegram.NewBot(cfg.TelegramToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}
	bot.SetMaxFileBytes(cfg.MaxImageBytes)

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build container")
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release detector")
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.BotMode == config.ModePolling {
		group.Go(func() error {
			return bot.Run(groupCtx, func(ctx context.Context, update tgbotapi.Update) {
				appContainer.Updates.HandleUpdate(logger.WithContext(ctx), update)
			})
		})
	}

	// HTTP поднимается в обоих режимах: картинки для карточек и /metrics нужны всегда.
	httpApp := appContainer.HTTP()
	addr := ":" + strconv.Itoa(cfg.Port)
	group.Go(func() error {
		logger.Info().Str("addr", addr).Str("mode", cfg.BotMode).Msg("starting web server")
		if err := httpApp.Listen(addr); err != nil {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpApp.ShutdownWithContext(shutdownCtx)
	})

	// Ошибка регистрации останавливает группу и завершает процесс с ненулевым кодом.
	group.Go(func() error {
		return registerWebhook(cfg, bot)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server failed")
		_ = appContainer.Close()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
