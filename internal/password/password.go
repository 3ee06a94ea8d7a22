// Package password generates the owner secrets applied to protected
// documents. The secret is the only barrier against modification, so
// characters are drawn from crypto/rand, never math/rand.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the full set of characters a generated password may contain:
// ASCII letters, digits, and a fixed run of punctuation.
const Alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+[]{}|;:,.<>?"

// DefaultLength matches the protect command's default.
const DefaultLength = 20

// Generate returns a password of the given length with each character
// drawn independently and uniformly from Alphabet.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
