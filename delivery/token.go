package delivery

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// randomHexToken returns n hex characters of cryptographic randomness.
// Uniqueness of generated storage keys is probabilistic by design.
func randomHexToken(n int) (string, error) {
	if n <= 0 || n%2 != 0 {
		return "", fmt.Errorf("token length must be a positive even number, got %d", n)
	}
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
