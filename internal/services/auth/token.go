// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the number of random bytes in a reset token. Rendered
// as hex, tokens are twice this length.
const ResetTokenBytes = 32

// GenerateResetToken produces a cryptographically random reset token of 64
// hex characters. Entropy-source failure propagates; it is fatal to the
// calling operation.
func GenerateResetToken() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
