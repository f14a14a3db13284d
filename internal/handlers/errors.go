// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/authflow/authflow/internal/i18n"
	"github.com/authflow/authflow/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// writeError maps a service failure to a status code and a safe, localized
// message. Raw internal errors are logged and never reach the caller.
func writeError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, auth.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": i18n.T(ctx, "err_not_found")})
	case errors.Is(err, auth.ErrEmailTaken):
		return c.JSON(http.StatusConflict, map[string]string{"message": i18n.T(ctx, "err_email_taken")})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": i18n.T(ctx, "err_invalid_credentials")})
	case errors.Is(err, auth.ErrInvalidOrExpired):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": i18n.T(ctx, "err_token_invalid")})
	case errors.Is(err, auth.ErrDeliveryFailed):
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": i18n.T(ctx, "err_delivery_failed")})
	default:
		slog.Error("internal error", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": i18n.T(ctx, "err_internal")})
	}
}
