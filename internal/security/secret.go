// Package security holds the crypto helpers for the refresh-credential
// lifecycle: random secret generation, the fast digest used for forensic
// index fields, the slow salted hash for the secret half, and the expiry
// clamp.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// RandomSecret returns n cryptographically random bytes encoded as
// unpadded URL-safe base64. The encoded form never contains the token
// delimiter ".".
func RandomSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("security: secret size must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SHA256Hex returns the hex-encoded SHA-256 digest of value. Used for
// non-secret index fields (user-agent, client IP). Not timing-safe and
// never used for the credential secret itself.
func SHA256Hex(value string) string {
	d := sha256.Sum256([]byte(value))
	return hex.EncodeToString(d[:])
}
