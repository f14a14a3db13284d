// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers is the thin HTTP adapter over the account services.
// Status-code mapping lives here; the services only speak the typed
// failure taxonomy.
package handlers

import (
	"net/http"

	"github.com/authflow/authflow/internal/repository"
	"github.com/authflow/authflow/internal/services/auth"
	"github.com/authflow/authflow/internal/services/reset"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	auth  *auth.Service
	reset *reset.Manager
	repo  *repository.Repository
}

// New creates a new Handlers instance.
func New(authService *auth.Service, resetManager *reset.Manager, repo *repository.Repository) *Handlers {
	return &Handlers{auth: authService, reset: resetManager, repo: repo}
}

// Health reports service status. The user count doubles as a store
// roundtrip, so a broken database shows up here instead of on the first
// login.
func (h *Handlers) Health(c echo.Context) error {
	count, err := h.repo.CountUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"users":  count,
	})
}
