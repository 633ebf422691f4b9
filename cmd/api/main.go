package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sefazor/eventos-backend/internal/config"
	"github.com/sefazor/eventos-backend/internal/server"
	"github.com/sefazor/eventos-backend/internal/service"
	"github.com/sefazor/eventos-backend/pkg/database"
	"github.com/sefazor/eventos-backend/pkg/email"
	"github.com/sefazor/eventos-backend/pkg/logger"
	"github.com/sefazor/eventos-backend/pkg/storage"
)

func main() {
	// Load .env
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.Server.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if envErr != nil {
		zlog.Warn("no .env file loaded, using process environment")
	}

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewDatabase(database.Options{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
		SearchLanguage:  cfg.Database.SearchLanguage,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.Database.SearchLanguage); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	store, err := newStorage(ctx, cfg)
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.Error(err))
	}

	var mailer service.Notifier
	emailService := email.NewEmailService(email.Config{
		APIKey:      cfg.Email.ResendAPIKey,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		FrontendURL: cfg.Server.FrontendURL,
	}, zlog)
	if emailService.Enabled() {
		mailer = emailService
	} else {
		zlog.Info("RESEND_API_KEY not set, emails disabled")
	}

	app := server.New(cfg, zlog, db, store, mailer)

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Error("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "s3", "r2":
		r2 := cfg.Storage.R2
		return storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        r2.Endpoint,
			AccountID:       r2.AccountID,
			AccessKeyID:     r2.AccessKeyID,
			SecretAccessKey: r2.SecretAccessKey,
			Bucket:          r2.Bucket,
			PublicURL:       r2.PublicURL,
		})
	default:
		return storage.NewLocalStorage(cfg.Storage.LocalDir, "/uploads")
	}
}
