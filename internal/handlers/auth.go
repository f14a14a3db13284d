// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/authflow/authflow/internal/i18n"
	"github.com/authflow/authflow/internal/models"
	"github.com/authflow/authflow/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// userPayload is the user summary returned by the account endpoints.
func userPayload(u *models.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.DisplayName,
		"email": u.Email,
	}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *Handlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	user, err := h.auth.Register(c.Request().Context(), auth.RegisterInput{
		Email:       req.Email,
		DisplayName: req.Name,
		Password:    req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": i18n.T(c.Request().Context(), "msg_account_created"),
		"user":    userPayload(user),
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": i18n.T(c.Request().Context(), "msg_login_success"),
		"user":    userPayload(user),
	})
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// UpdateProfile updates the user's display name.
func (h *Handlers) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), auth.UpdateProfileInput{
		UserID:      req.UserID,
		DisplayName: req.Name,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": i18n.T(c.Request().Context(), "msg_profile_updated"),
		"user":    userPayload(user),
	})
}

// ChangePasswordRequest is the request body for password changes.
type ChangePasswordRequest struct {
	UserID          int64  `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword changes the password of a user who knows their current
// password.
func (h *Handlers) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	err := h.auth.ChangePassword(c.Request().Context(), auth.ChangePasswordInput{
		UserID:          req.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": i18n.T(c.Request().Context(), "msg_password_changed"),
	})
}

// ForgotPasswordRequest is the request body for requesting a reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token and mails it to the user.
func (h *Handlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	if err := h.reset.Issue(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": i18n.T(c.Request().Context(), "msg_reset_link_sent"),
	})
}

// VerifyResetToken checks a reset token without consuming it. Called when
// the user opens the link from their email.
func (h *Handlers) VerifyResetToken(c echo.Context) error {
	user, err := h.reset.Verify(c.Request().Context(), c.Param("token"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": i18n.T(c.Request().Context(), "msg_token_valid"),
		"email":   user.Email,
	})
}

// ResetPasswordRequest is the request body for consuming a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and sets the new password.
func (h *Handlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	if err := h.reset.Consume(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": i18n.T(c.Request().Context(), "msg_password_reset"),
	})
}
