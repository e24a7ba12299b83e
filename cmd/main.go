package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pagePerception/internal/browser"
	"pagePerception/internal/cli"
	"pagePerception/internal/cli/commands"
	"pagePerception/internal/config"
	"pagePerception/internal/database"
	"pagePerception/internal/logger"
	"pagePerception/internal/migrations"
	"pagePerception/internal/sanitizer"
	"pagePerception/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level, logger.WithFile(logger.File{
		Path:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
	}))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	br, err := browser.New(browser.Config{
		Headless:        cfg.Browser.Headless,
		UserDataDir:     cfg.Browser.UserDataDir,
		BrowsersPath:    cfg.Browser.BrowsersPath,
		Display:         cfg.Browser.Display,
		CDPURL:          cfg.Browser.CDPURL,
		Timeout:         cfg.Browser.Timeout,
		NavigateTimeout: cfg.Browser.NavigateTimeout,
		ActionTimeout:   cfg.Browser.ActionTimeout,
		ConnectRetries:  cfg.Browser.ConnectRetries,
		BlockedURLs:     cfg.Browser.BlockedURLs,
		BreakerFailures: cfg.Browser.BreakerFailures,
		BreakerReset:    cfg.Browser.BreakerReset,
		TagAttribute:    cfg.Perception.TagAttribute,
		TagPrefix:       cfg.Perception.TagPrefix,
		MaxLabel:        cfg.Perception.MaxLabel,
	}, log.Logger)
	if err != nil {
		log.Fatal("Ошибка конфигурации браузера", zap.Error(err))
	}

	if cfg.Perception.Redact {
		br.SetRedactor(sanitizer.New())
	}

	// История хранится только при настроенной БД.
	var (
		cliStore    commands.SnapshotStore
		serverStore server.SnapshotStore
	)
	if cfg.Database.Enabled() {
		if err := migrations.Run(cfg, log); err != nil {
			log.Fatal("Ошибка миграций", zap.Error(err))
		}

		db, err := database.New(cfg, log)
		if err != nil {
			log.Fatal("Ошибка подключения к БД", zap.Error(err))
		}
		defer db.Close(log)

		repo := database.NewSnapshotRepository(db.DB)
		br.SetRecorder(database.NewRecorder(repo))
		cliStore, serverStore = repo, repo
	} else {
		log.Info("DB_HOST не задан, история снимков отключена")
	}

	if err := br.Launch(ctx); err != nil {
		log.Fatal("Ошибка запуска браузера", zap.Error(err))
	}
	defer func() {
		if err := br.Close(); err != nil {
			log.Error("Ошибка закрытия браузера", zap.Error(err))
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := server.New(cfg, log, br, serverStore).Run(ctx); err != nil {
			log.Error("Ошибка сервера", zap.Error(err))
		}
		return
	}

	cli.New(log, br, cliStore).Run(ctx)
}
