package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	hasher := &BcryptHasher{Cost: bcrypt.MinCost}

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", digest)

	require.True(t, hasher.Verify("correct horse battery staple", digest))
	require.False(t, hasher.Verify("wrong password", digest))
}

func TestHasherProducesUniqueDigests(t *testing.T) {
	hasher := &BcryptHasher{Cost: bcrypt.MinCost}

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "bcrypt salts must differ per hash")
}

func TestHasherAcceptsLegacyDigest(t *testing.T) {
	hasher := NewHasher()
	legacy := LegacyDigest("imported-password")

	require.True(t, IsLegacyDigest(legacy))
	require.True(t, hasher.Verify("imported-password", legacy))
	require.False(t, hasher.Verify("other-password", legacy))
}

func TestIsLegacyDigestShape(t *testing.T) {
	require.True(t, IsLegacyDigest(LegacyDigest("x")))
	require.False(t, IsLegacyDigest("$2a$10$abcdefghijklmnopqrstuv"))
	require.False(t, IsLegacyDigest("deadbeef"))
	// 64 characters but not hex.
	require.False(t, IsLegacyDigest("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
}
