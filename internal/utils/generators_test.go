package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCheckInCodeLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCheckInCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, c), "unexpected character %q in code %s", c, code)
		}
	}
}

func TestGenerateCheckInCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCheckInCode(6)
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from 36^6 colliding down to a handful would mean broken randomness.
	assert.Greater(t, len(seen), 45)
}

func TestGenerateCheckInCodeRejectsNonPositiveLength(t *testing.T) {
	_, err := GenerateCheckInCode(0)
	assert.Error(t, err)

	_, err = GenerateCheckInCode(-3)
	assert.Error(t, err)
}
