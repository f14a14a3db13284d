// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires the account service together and runs the HTTP
// listener.
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

	"github.com/authflow/authflow/internal/config"
	"github.com/authflow/authflow/internal/database"
	"github.com/authflow/authflow/internal/handlers"
	"github.com/authflow/authflow/internal/i18n"
	"github.com/authflow/authflow/internal/notify"
	"github.com/authflow/authflow/internal/repository"
	"github.com/authflow/authflow/internal/services/auth"
	"github.com/authflow/authflow/internal/services/reset"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Services
	repo := repository.New(db)
	authService := auth.NewService(repo, auth.NewHasher())

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to build notifier: %w", err)
	}
	resetManager := reset.NewManager(repo, authService.Hasher(), notifier)
	resetManager.SetTTL(cfg.Reset.TokenTTL)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(localeResolver(), requestLogger())

	setupRoutes(e, handlers.New(authService, resetManager, repo))

	return startWithGracefulShutdown(e, cfg)
}

// buildNotifier assembles the delivery chain. With SMTP configured the
// chain is SMTP first; without it the log-only notifier carries the link
// so development setups still work end to end.
func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	logNotifier := notify.NewLogNotifier(cfg.Server.BaseURL)
	if !cfg.SMTPConfigured() {
		slog.Warn("SMTP not configured, reset links are logged instead of mailed")
		return logNotifier, nil
	}

	smtp, err := notify.NewSMTPNotifier(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	return notify.NewChain(smtp), nil
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	api := e.Group("/api/auth")

	api.GET("/health", h.Health)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.PUT("/profile", h.UpdateProfile)
	api.POST("/change-password", h.ChangePassword)
	api.POST("/forgot-password", h.ForgotPassword)
	api.GET("/reset-password/:token", h.VerifyResetToken)
	api.POST("/reset-password/:token", h.ResetPassword)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
