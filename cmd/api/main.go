package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ccontapub/accounts-api/internal/api"
	"github.com/ccontapub/accounts-api/internal/core/ports"
	"github.com/ccontapub/accounts-api/internal/core/service"
	"github.com/ccontapub/accounts-api/internal/infrastructure/config"
	mongodb "github.com/ccontapub/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ccontapub/accounts-api/internal/infrastructure/db/redis"
	"github.com/ccontapub/accounts-api/internal/infrastructure/mail"
	"github.com/ccontapub/accounts-api/internal/infrastructure/queue"
	"github.com/ccontapub/accounts-api/internal/infrastructure/security"
	"github.com/ccontapub/accounts-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logg.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Notifications ---
	var sender ports.Notifier
	if cfg.SMTP.Host == "" {
		logg.Warn().Msg("SMTP_HOST not set, codes are delivered to the log")
		sender = mail.NewLogNotifier(logg)
	} else {
		sender = mail.NewSMTPMailer(mail.Config{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			From:        cfg.SMTP.From,
			FrontendURL: cfg.SMTP.FrontendURL,
		}, logg)
	}
	dispatcher := queue.NewDispatcher(cfg.MailWorkers, sender, logg)
	dispatcher.Start(ctx)

	// --- Core wiring ---
	signer := security.NewSessionSigner(security.SessionConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	})
	authService := service.NewAuthService(
		mongodb.NewUserRepository(db),
		redisdb.NewTokenRepository(rdb),
		dispatcher,
		security.NewPasswordCodec(0),
		security.NewTokenGenerator(),
		signer,
		logg,
	)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Sessions:    signer,
		Mongo:       db,
		Redis:       rdb,
		Log:         logg,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("server stopped")
		}
	}()
	logg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown failed")
	}
}
