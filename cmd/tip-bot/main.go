package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/pinwager/pinwager/internal/bot"
	"github.com/pinwager/pinwager/internal/pipeline"
	"github.com/pinwager/pinwager/internal/pkg/config"
	"github.com/pinwager/pinwager/internal/pkg/health"
	"github.com/pinwager/pinwager/internal/pkg/logging"
	"github.com/pinwager/pinwager/internal/pkg/metrics"
	"github.com/pinwager/pinwager/internal/pkg/settings"
	"github.com/pinwager/pinwager/internal/pkg/storage"
	"github.com/pinwager/pinwager/internal/ps3838"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Tip bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := parseFlags()

	slog.Info("Loading config", "path", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.Setup(cfg.Logging.Level, "tip-bot")

	store, err := settings.Load(cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	journal, err := storage.NewJournal(cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to open placement journal: %w", err)
	}
	defer journal.Close()

	m := metrics.New()
	book := ps3838.New(cfg.PS3838, m)
	pl := pipeline.New(book, store, journal, m, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = false
	slog.Info("Authorized on telegram", "account", api.Self.UserName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(ctx, cancel)

	health.Run(ctx, health.AddrFor(cfg.Health.Port), "tip-bot", m, cfg.Health.ReadHeaderTimeout)

	notifier := bot.NewNotifier(api, cfg.Telegram.ChannelID, m, log)
	defer notifier.Stop()

	b := bot.New(api, cfg.Telegram, pl, store, notifier, log)
	b.Run(ctx)

	slog.Info("Tip bot stopped gracefully")
	return nil
}

func parseFlags() string {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	configPath := flag.String("config", defaultConfig, "Path to config file")
	flag.Parse()
	return *configPath
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
