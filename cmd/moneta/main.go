package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/mail"
	"github.com/moneta-app/moneta/internal/server"
	"github.com/moneta-app/moneta/internal/store"
)

func main() {
	logger := logging.New(logging.Config{Level: slog.LevelInfo})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.RunMigrations(db.DB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := store.NewRepositoryManager(db)
	repo.MustValidate()

	var mailer mail.Mailer
	switch cfg.MailBackend {
	case "amqp":
		amqpMailer, err := mail.NewAMQPMailer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.MailFrom, cfg.BaseURL)
		if err != nil {
			logger.Error("failed to connect mail broker", "error", err)
			os.Exit(1)
		}
		defer amqpMailer.Close()
		mailer = amqpMailer
	default:
		mailer = &mail.LogMailer{
			BaseURL: cfg.BaseURL,
			Logger:  logger.WithComponent("mail"),
		}
	}

	srv := server.New(cfg, repo, mailer, logger)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.Listen(); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
