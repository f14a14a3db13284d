// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package reset implements the password-reset token lifecycle: issuance,
// verification and single-use consumption against the credential store.
package reset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/authflow/authflow/internal/models"
	"github.com/authflow/authflow/internal/notify"
	"github.com/authflow/authflow/internal/repository"
	"github.com/authflow/authflow/internal/services/auth"
)

const (
	// TokenTTL is how long an issued reset token stays valid.
	TokenTTL = 15 * time.Minute
	// NotifyTimeout bounds the notifier call inside Issue.
	NotifyTimeout = 15 * time.Second
)

// Manager orchestrates reset tokens. Expiry is enforced lazily through the
// store's filtered lookups; there is no background sweeper.
type Manager struct {
	repo     *repository.Repository
	hasher   *auth.Hasher
	notifier notify.Notifier
	now      func() time.Time
	ttl      time.Duration
}

// NewManager creates a reset Manager with the default token TTL.
func NewManager(repo *repository.Repository, hasher *auth.Hasher, notifier notify.Notifier) *Manager {
	return &Manager{
		repo:     repo,
		hasher:   hasher,
		notifier: notifier,
		now:      time.Now,
		ttl:      TokenTTL,
	}
}

// SetTTL overrides the token validity window. Non-positive values are
// ignored and the default stays in effect.
func (m *Manager) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		m.ttl = ttl
	}
}

// SetClock overrides the manager's clock. Tests use this to step past the
// token expiry without sleeping.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Issue generates a reset token for the account with the given email,
// persists it with the configured expiry window, and hands it to the
// notifier. An
// unknown email fails with ErrUserNotFound before the notifier is touched.
//
// When delivery fails the token stays persisted: the operation reports
// ErrDeliveryFailed so the caller can tell the user delivery is uncertain,
// and a retried Issue overwrites the pending token. This is accepted
// behavior, not a rollback candidate.
func (m *Manager) Issue(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", auth.ErrValidation)
	}

	user, err := m.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}

	expiry := m.now().Add(m.ttl)
	if err := m.repo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	slog.Info("reset_token_issued", "user_id", user.ID, "expiry", expiry)

	notifyCtx, cancel := context.WithTimeout(ctx, NotifyTimeout)
	defer cancel()

	if err := m.notifier.SendResetToken(notifyCtx, user.Email, token); err != nil {
		slog.Error("reset_delivery_failed", "user_id", user.ID, "error", err)
		return auth.ErrDeliveryFailed
	}

	return nil
}

// Verify checks that a token exists and is unexpired, returning the owning
// user. It is read-only and repeatable; it never consumes the token.
func (m *Manager) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, auth.ErrInvalidOrExpired
	}

	user, err := m.repo.GetUserByResetToken(ctx, token, m.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	return user, nil
}

// Consume redeems a token: it re-hashes the new password and clears the
// token pair in one conditional store update. Of any number of concurrent
// calls with the same token, exactly one claims the row; the rest fail
// with ErrInvalidOrExpired, as does any later Verify or Consume.
func (m *Manager) Consume(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return auth.ErrInvalidOrExpired
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := m.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	claimed, err := m.repo.ConsumeResetToken(ctx, token, m.now(), passwordHash)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !claimed {
		return auth.ErrInvalidOrExpired
	}

	slog.Info("reset_token_consumed")
	return nil
}
