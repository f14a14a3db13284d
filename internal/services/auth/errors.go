// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import "errors"

// Failure taxonomy for the account operations. Handlers map these to
// status codes; anything not matched here is an internal failure and must
// not leak its cause to the caller.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOrExpired   = errors.New("reset token is invalid or expired")
	ErrDeliveryFailed     = errors.New("reset email delivery failed")
)
