package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeAlphabet is the 36-symbol space check-in codes are drawn from.
// Uppercase-only keeps codes human-typeable at the door.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCheckInCode returns a random fixed-length code from CodeAlphabet.
// Collisions within an event are possible and must be detected at write
// time; the caller retries with a fresh code.
func GenerateCheckInCode(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = CodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
