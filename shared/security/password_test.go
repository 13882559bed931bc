package security

import (
	"strings"
	"testing"

	"github.com/matthewhartstonge/argon2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapHasher() *Argon2Hasher {
	cfg := argon2.DefaultConfig()
	cfg.TimeCost = 1
	cfg.MemoryCost = 8 * 1024
	return NewArgon2Hasher(cfg)
}

func TestArgon2Hasher(t *testing.T) {
	h := cheapHasher()

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "pw$")

	ok, err := h.Verify("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("PW", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2HasherSalted(t *testing.T) {
	h := cheapHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasherRejectsMalformedHash(t *testing.T) {
	_, err := DefaultHasher().Verify("pw", "not-a-hash")
	assert.Error(t, err)
}
