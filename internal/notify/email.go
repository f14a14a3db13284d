// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/authflow/authflow/internal/config"
	"github.com/authflow/authflow/internal/i18n"
	"github.com/wneessen/go-mail"
)

// SMTPNotifier sends reset emails via SMTP using go-mail.
type SMTPNotifier struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewSMTPNotifier creates an SMTP notifier. The base URL is where the
// reset link points; the token is appended as a path segment.
func NewSMTPNotifier(cfg *config.SMTPConfig, baseURL string) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &SMTPNotifier{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendResetToken sends the password-reset email.
func (n *SMTPNotifier) SendResetToken(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", n.baseURL, token)

	subject := i18n.T(ctx, "reset_email_subject")
	body := i18n.TData(ctx, "reset_email_body", map[string]any{
		"ResetURL": resetURL,
	})

	return n.send(ctx, toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if n.cfg.FromName != "" {
		if err := msg.FromFormat(n.cfg.FromName, n.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(n.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others.
	if n.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if n.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if n.cfg.Username != "" && n.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
