package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/app"
	"github.com/InQaaaaGit/thai_sentiment/internal/buildinfo"
	"github.com/InQaaaaGit/thai_sentiment/internal/config"
	"github.com/InQaaaaGit/thai_sentiment/internal/server"
)

// Заполняются при сборке через -ldflags "-X main.buildVersion=..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// run собирает приложение и блокируется до отмены ctx
func run(ctx context.Context, args []string) error {
	// Инициализация конфигурации
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}

	// Инициализация логгера
	logger, err := server.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer server.SyncLogger(logger)

	info := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	info.Log(logger)

	// Создание приложения. Модель загружается здесь, до открытия порта.
	application, err := app.NewApp(ctx, cfg, logger, info)
	if err != nil {
		logger.Error("Error creating application", zap.Error(err))
		return err
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
