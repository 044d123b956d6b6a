package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// GenerateToken returns size random bytes encoded as unpadded base64url, so
// the result is safe to drop into a URL path.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// InviteToken mints the secret handed to an invitee. Only its fingerprint is stored.
func InviteToken() (string, error) { return GenerateToken(TokenSize256) }

// ShareToken mints a trip share-link secret. It is stored as-is because the
// same token is handed back to every participant who asks for the link.
func ShareToken() (string, error) { return GenerateToken(TokenSize256) }

// FingerprintToken returns the base64url SHA-256 of token (43 chars). Stored
// in place of one-shot secrets so a database leak does not leak live tokens.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
