package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomToken(size int) (string, error) {
	buffer := make([]byte, size)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// RandomAlphanumeric returns n random characters from [a-zA-Z0-9] using
// crypto/rand. Used for the random part of session identifiers.
func RandomAlphanumeric(n int) (string, error) {
	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	var builder strings.Builder
	builder.Grow(n)
	for _, b := range buffer {
		builder.WriteByte(alphanumeric[int(b)%len(alphanumeric)])
	}
	return builder.String(), nil
}

// HashToken is used for tokens that are delivered out of band (password reset
// links); bearer tokens are stored and matched raw.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
