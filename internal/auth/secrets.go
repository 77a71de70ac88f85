package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const secretSize = 32 // 256 bits of entropy

// GenerateSecret creates a cryptographically random opaque secret.
// Used for recovery keys and content-encryption keys.
// Returns the secret in base64-urlencoded form.
func GenerateSecret() (string, error) {
	b := make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// HashSecret creates a SHA-256 digest of a secret for at-rest storage.
// We store hashed recovery keys and session tokens so a database compromise
// doesn't leak usable credentials.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// VerifySecret compares a candidate secret against a stored digest in constant time.
func VerifySecret(storedHash, candidate string) bool {
	candidateHash := HashSecret(candidate)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(candidateHash)) == 1
}
