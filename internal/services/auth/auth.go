// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements the account operations: registration, login,
// profile updates and password changes. The reset-token lifecycle lives in
// the reset package and shares this package's hasher and error taxonomy.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/authflow/authflow/internal/models"
	"github.com/authflow/authflow/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo   *repository.Repository
	hasher *Hasher
}

func NewService(repo *repository.Repository, hasher *Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Hasher returns the password hasher for use by the reset manager.
func (s *Service) Hasher() *Hasher {
	return s.hasher
}

// RegisterInput holds the parameters for user registration.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	UserID      int64
	DisplayName string
}

// ChangePasswordInput holds the parameters for an authenticated password
// change.
type ChangePasswordInput struct {
	UserID          int64
	CurrentPassword string
	NewPassword     string
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := models.NormalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, email, input.DisplayName, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", email)
	return user, nil
}

// Login authenticates a user. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison to
			// prevent timing attacks.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// UpdateProfile mutates the mutable profile fields only. Email and
// password are untouchable on this path.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.User, error) {
	if input.UserID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	if err := s.repo.UpdateDisplayName(ctx, input.UserID, input.DisplayName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password before re-deriving the
// stored hash from the new one.
func (s *Service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.UserID == 0 || input.CurrentPassword == "" {
		return fmt.Errorf("%w: user id and current password are required", ErrValidation)
	}
	if err := ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		slog.Warn("change_password_failed", "user_id", user.ID, "reason", "current_password_mismatch")
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_changed", "user_id", user.ID)
	return nil
}
