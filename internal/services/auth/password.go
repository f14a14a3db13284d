// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt work factor for stored password hashes.
	HashCost = 12
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)

// Hasher derives and verifies password hashes with bcrypt. The salt is
// generated per call and embedded in the output, so Verify is
// self-contained.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default cost.
func NewHasher() *Hasher {
	return &Hasher{cost: HashCost}
}

// NewHasherWithCost creates a Hasher with an explicit cost. Tests use
// bcrypt.MinCost to stay fast.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash derives a hash from a plain-text password. Only called when a
// password is first set or changed, never on an already-hashed value.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the password matches the hash. bcrypt's compare
// does not leak where a mismatch occurs; a wrong password is false, never
// an error.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks the password policy. It runs at the service
// boundary before any store access.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	return nil
}
