// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogNotifier logs the reset link instead of sending it. Used in
// development when no SMTP host is configured.
type LogNotifier struct {
	baseURL string
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(baseURL string) *LogNotifier {
	return &LogNotifier{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SendResetToken logs the reset link.
func (n *LogNotifier) SendResetToken(_ context.Context, toEmail, token string) error {
	slog.Info("reset link (SMTP not configured)",
		"to", toEmail,
		"url", fmt.Sprintf("%s/reset-password/%s", n.baseURL, token),
	)
	return nil
}
