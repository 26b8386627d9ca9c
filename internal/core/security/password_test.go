package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, p := range []string{"secret123", "", "pässwörd", strings.Repeat("x", 72)} {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)
		assert.True(t, h.Verify(p, hash), "password %q should verify", p)
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("alpha")
	require.NoError(t, err)
	assert.False(t, h.Verify("beta", hash))
	assert.False(t, h.Verify("alph", hash))
}

func TestBcryptHasher_Salted(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, hash := range []string{first, second} {
		assert.True(t, h.Verify("secret123", hash))
		assert.False(t, h.Verify("wrong", hash))
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "plain", "$2a$10$short", "$9z$04$" + strings.Repeat("a", 53)} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("anything", bad))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
