package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Generate(t *testing.T) {
	gen := NewRandomGenerator(8)

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 8)

	for _, c := range code {
		assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected character %q", c)
	}
}

func TestRandomGenerator_GenerateUnique(t *testing.T) {
	gen := NewDefaultGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %q after %d generations", code, i)
		seen[code] = true
	}
}

func TestNewRandomGenerator_InvalidLength(t *testing.T) {
	gen := NewRandomGenerator(0)
	assert.Equal(t, DefaultLength, gen.Length())

	gen = NewRandomGenerator(-3)
	assert.Equal(t, DefaultLength, gen.Length())
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 62)

	seen := make(map[rune]bool)
	for _, c := range Alphabet {
		assert.False(t, seen[c], "duplicate alphabet character %q", c)
		seen[c] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid mixed case", "aB3xY9qZ", true},
		{"valid digits only", "12345678", true},
		{"empty", "", false},
		{"contains dash", "abc-1234", false},
		{"contains slash", "abc/1234", false},
		{"contains space", "abc 1234", false},
		{"unicode", "abcd123é", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input))
		})
	}
}
