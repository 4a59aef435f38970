// Command server runs the blog.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"
	"inkwell/internal/server"
	"inkwell/internal/sessionstore"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:  "inkwell",
			Environment:  cfg.Env,
			Enabled:      cfg.TracingEnabled,
			Exporter:     cfg.TracingExporter,
			OTLPEndpoint: cfg.OTLPEndpoint,
		})
		if err != nil {
			middleware.Logger.Error("failed to initialize tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				middleware.Logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// sessions live in redis when configured, in process memory otherwise
	var storage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := sessionstore.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			middleware.Logger.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		storage = redisStorage
		defer redisStorage.Close()
	}

	var mailer mail.Sender
	if cfg.MailConfigured() {
		mailer = mail.NewSMTPSender(cfg)
	} else {
		middleware.Logger.Warn("mail is not configured, contact submissions will fail soft")
	}

	srv := server.New(cfg, db, storage, mailer)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	middleware.Logger.Info("server starting", slog.String("port", cfg.Port))
	if err := srv.Listen(":" + cfg.Port); err != nil {
		middleware.Logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
