package util

import (
	"crypto/rand"
	"encoding/base64"
)

func generateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateTokenValue returns a URL-safe opaque secret backed by
// entropyBytes of cryptographically secure randomness.
func GenerateTokenValue(entropyBytes int) (string, error) {
	b, err := generateRandomBytes(entropyBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
