package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strconv"
)

// GenerateToken returns 32 random bytes hex-encoded (64 characters).
// Used for password-reset links; only the digest is ever persisted.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateOTP returns a 6-digit numeric code drawn uniformly from
// [100000, 999999] using crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return strconv.FormatInt(code, 10), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token or OTP.
// Plaintext secrets are never stored; the digest is what goes to the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenEqual compares a candidate plaintext token against a stored digest in
// constant time.
func TokenEqual(candidate, storedHash string) bool {
	candidateHash := HashToken(candidate)
	return subtle.ConstantTimeCompare([]byte(candidateHash), []byte(storedHash)) == 1
}
