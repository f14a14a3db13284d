// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package notify delivers reset tokens to users out-of-band. The reset
// manager only depends on the success/failure signal, never on which
// transport did the work.
package notify

import "context"

// Notifier delivers a reset token to a recipient. Implementations own
// rendering and transport; callers provide the raw token and address only.
type Notifier interface {
	SendResetToken(ctx context.Context, toEmail, token string) error
}
