package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const defaultSecretBytes = 32

// NewSecret returns nBytes of randomness hex-encoded.
func NewSecret(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = defaultSecretBytes
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
