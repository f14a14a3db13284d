// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Chain tries notifiers in order and stops at the first success. Only the
// final outcome surfaces; callers never learn which provider delivered.
type Chain struct {
	notifiers []Notifier
}

// NewChain creates a fallback chain over the given notifiers.
func NewChain(notifiers ...Notifier) *Chain {
	return &Chain{notifiers: notifiers}
}

// SendResetToken delivers through the first notifier that succeeds.
func (c *Chain) SendResetToken(ctx context.Context, toEmail, token string) error {
	if len(c.notifiers) == 0 {
		return errors.New("no notifiers configured")
	}

	var lastErr error
	for i, n := range c.notifiers {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = n.SendResetToken(ctx, toEmail, token)
		if lastErr == nil {
			return nil
		}
		slog.Warn("notifier_failed", "provider", i, "error", lastErr)
	}
	return lastErr
}
