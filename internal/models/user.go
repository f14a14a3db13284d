// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"strings"
	"time"
)

// User is a user account. PasswordHash only ever holds the bcrypt-derived
// value; the plain text never touches the store. ResetToken and
// ResetTokenExpiry are either both nil (no pending reset) or both set.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID               int64      `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	DisplayName      string     `db:"display_name" json:"display_name"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	ResetToken       *string    `db:"reset_token" json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPendingReset reports whether a reset token is stored and unexpired at
// the given instant. The comparison is strict: a token presented at the
// exact expiry instant counts as expired.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now)
}

// NormalizeEmail lower-cases and trims an email address. All store lookups
// and the uniqueness constraint operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
