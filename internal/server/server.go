// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

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

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/database"
	"codeberg.org/oliverandrich/alumni-api/internal/handlers"
	"codeberg.org/oliverandrich/alumni-api/internal/i18n"
	"codeberg.org/oliverandrich/alumni-api/internal/middleware"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/email"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/news"
	"codeberg.org/oliverandrich/alumni-api/internal/services/session"
	"codeberg.org/oliverandrich/alumni-api/internal/services/token"
	"codeberg.org/oliverandrich/alumni-api/internal/services/users"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// i18n
	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to init i18n: %w", err)
	}

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	app, err := newApp(ctx, cfg, repo)
	if err != nil {
		return err
	}
	defer app.close()

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := app.services.Auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("failed to ensure admin: %w", err)
		}
	}

	return startWithGracefulShutdown(app.echo, cfg)
}

// app is the wired HTTP application.
type app struct {
	echo     *echo.Echo
	services handlers.Services
	tokens   *token.Service
	closers  []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Error("failed to close resource", "error", err)
		}
	}
}

// newApp builds the services and the echo instance serving them.
func newApp(ctx context.Context, cfg *config.Config, repo *repository.Repository) (*app, error) {
	a := &app{}

	store, closeStore, err := newTokenStore(ctx, cfg, repo)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	a.tokens = token.NewService(cfg.JWT, store)

	imageStore, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	imgs := images.NewService(imageStore, cfg.Server.APIURL, cfg.Images.AvatarMaxSize)

	mailer, err := newMailer(cfg)
	if err != nil {
		return nil, err
	}

	cookies, err := session.NewManager(&cfg.Cookie, cfg.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie manager: %w", err)
	}

	a.services = handlers.Services{
		Auth: authsvc.NewService(repo, a.tokens, mailer, authsvc.Options{
			BaseURL:    cfg.Server.BaseURL,
			BcryptCost: cfg.Auth.BcryptCost,
			AvatarURL:  imgs.AvatarURL,
		}),
		Users:     users.NewService(repo, imgs),
		News:      news.NewService(repo, imgs),
		Vacancies: vacancies.NewService(repo, imgs),
		Images:    imgs,
		Cookies:   cookies,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg)
	Routes(e, handlers.New(repo, a.services), Guards{
		Auth:     middleware.RequireAuth(a.tokens),
		Admin:    middleware.RequireAdmin,
		OTPLimit: middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	})
	a.echo = e

	return a, nil
}

// newTokenStore keeps refresh tokens in Redis when an address is configured
// and in the database otherwise.
func newTokenStore(ctx context.Context, cfg *config.Config, repo *repository.Repository) (token.Store, func() error, error) {
	if cfg.Redis.Addr == "" {
		return token.NewSQLStore(repo), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("refresh tokens stored in redis", "addr", cfg.Redis.Addr)
	return token.NewRedisStore(client, cfg.JWT.RefreshTTL), client.Close, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (images.Store, error) {
	switch cfg.Images.Backend {
	case "", "disk":
		return images.NewDiskStore(cfg.Images.Dir), nil
	case "s3":
		client, err := images.NewS3Client(ctx, cfg.Images.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		slog.Info("images stored in s3", "bucket", cfg.Images.S3.Bucket)
		return images.NewS3Store(client, cfg.Images.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown images backend %q", cfg.Images.Backend)
	}
}

// newMailer returns the SMTP mailer, or a log-only one when no SMTP host is set.
func newMailer(cfg *config.Config) (authsvc.Mailer, error) {
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP host not set, mail is written to the log")
		return email.NewLogService(cfg.Server.BaseURL), nil
	}
	svc, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create email service: %w", err)
	}
	return svc, nil
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	// Channel for server errors
	errChan := make(chan error, 1)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
