// Package token mints and hashes the opaque bearer tokens used by
// invitations. Raw tokens are one-time credentials sent by mail; only
// their SHA-256 digest is ever persisted.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultTTLDays is the invitation validity window.
const DefaultTTLDays = 7

// Generate returns a 256-bit random token as a hex string. Uniqueness is
// probabilistic; no lookup against storage is performed.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("lecture aléatoire: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash returns the hex SHA-256 digest of a raw token.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ExpiresIn returns now + days. Non-positive days fall back to the default.
func ExpiresIn(days int) time.Time {
	if days <= 0 {
		days = DefaultTTLDays
	}
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}
