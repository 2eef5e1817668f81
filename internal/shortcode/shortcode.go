// Package shortcode handles short-code generation for shortened URLs.
package shortcode

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the 62-symbol alphanumeric alphabet short codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the default length for generated short codes.
const DefaultLength = 8

// Generator defines the interface for producing candidate short codes.
type Generator interface {
	// Generate creates a new candidate short code.
	Generate() (string, error)
}

// RandomGenerator generates random alphanumeric short codes.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a RandomGenerator with the specified code length.
func NewRandomGenerator(length int) *RandomGenerator {
	if length < 1 {
		length = DefaultLength
	}
	return &RandomGenerator{length: length}
}

// NewDefaultGenerator creates a RandomGenerator with the default code length.
func NewDefaultGenerator() *RandomGenerator {
	return NewRandomGenerator(DefaultLength)
}

// Generate creates a new random short code. Each character is drawn
// independently and uniformly from Alphabet using crypto/rand, so codes
// cannot be predicted or enumerated.
func (g *RandomGenerator) Generate() (string, error) {
	result := make([]byte, g.length)
	max := big.NewInt(int64(len(Alphabet)))

	for i := 0; i < g.length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = Alphabet[n.Int64()]
	}

	return string(result), nil
}

// Length returns the configured code length.
func (g *RandomGenerator) Length() int {
	return g.length
}

// IsValid reports whether s is non-empty and contains only alphabet characters.
func IsValid(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
