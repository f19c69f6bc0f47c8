package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/thelocalstore/store-api/internal/app"
	"github.com/thelocalstore/store-api/internal/auth"
	"github.com/thelocalstore/store-api/internal/config"
	"github.com/thelocalstore/store-api/internal/events"
	"github.com/thelocalstore/store-api/internal/imaging"
	"github.com/thelocalstore/store-api/internal/logging"
	"github.com/thelocalstore/store-api/internal/mail"
	"github.com/thelocalstore/store-api/internal/monitoring"
	"github.com/thelocalstore/store-api/internal/password"
	"github.com/thelocalstore/store-api/internal/postal"
	"github.com/thelocalstore/store-api/internal/rate"
	"github.com/thelocalstore/store-api/internal/session"
	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

func main() {
	cfg, err := config.Load(os.Getenv("STORE_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.ServiceName, cfg.Env)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	sentry, err := monitoring.NewSentry(monitoring.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentry.Close()

	tokens, err := token.NewService(token.Config{
		AccessSecret:  []byte(cfg.Token.AccessSecret),
		RefreshSecret: []byte(cfg.Token.RefreshSecret),
		ResetSecret:   []byte(cfg.Token.ResetSecret),
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		ResetTTL:      cfg.Token.ResetTTL,
		Issuer:        cfg.Token.Issuer,
	})
	if err != nil {
		return err
	}

	hasher, err := password.NewArgon2(password.DefaultConfig())
	if err != nil {
		return err
	}

	sessions := session.NewStore(redisClient, "")
	mailer := mail.NewClient(mail.Config{
		APIURL:    cfg.Mail.APIURL,
		APIKey:    cfg.Mail.APIKey,
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
	})

	authService := auth.NewService(store, tokens, sessions, hasher, mailer, logger)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
	}

	storeApp := app.NewApp(
		cfg,
		logger,
		authService,
		tokens,
		store,
		imaging.NewResizer(cfg.ResizerURL, 0),
		postal.NewClient(cfg.PostalAPIURL, 0),
		producer,
		sentry,
	)

	limiter := rate.New(redisClient, rate.Config{
		Limit:  cfg.Rate.Limit,
		Window: cfg.Rate.Window,
	})
	registry := prometheus.NewRegistry()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      storeApp.RegisterRoutes(logger, limiter, registry),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
