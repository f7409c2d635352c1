package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, h.Compare(hash, "secret123"))
	assert.Error(t, h.Compare(hash, "secret124"))

	again, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestBcryptHasherLength(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	_, err := h.Hash(strings.Repeat("a", MaxBytes))
	assert.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", MaxBytes+1))
	assert.ErrorIs(t, err, ErrTooLong)

	// 25 runes of 3 bytes each
	_, err = h.Hash(strings.Repeat("€", 25))
	assert.ErrorIs(t, err, ErrTooLong)
}
